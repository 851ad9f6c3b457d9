package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"bloodaid/internal/auth"
	"bloodaid/internal/payment"
	"bloodaid/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var queryDecoder = form.NewDecoder()

// AccountStore is the account store accessor the handlers depend on.
type AccountStore interface {
	Account(ctx context.Context, email string) (*types.Account, error)
	UpsertOnLogin(ctx context.Context, account *types.Account) error
	UpdateProfile(ctx context.Context, email string, account *types.Account) error
	SetPhotoURL(ctx context.Context, email, photoURL string) error
	Accounts(ctx context.Context) ([]*types.Account, error)
	ActiveDonors(ctx context.Context, search types.DonorSearch) ([]*types.Account, error)
	UpdateRole(ctx context.Context, email string, role types.Role) error
	UpdateStatus(ctx context.Context, email string, status types.AccountStatus) error
	CountByRole(ctx context.Context) (map[types.Role]int64, error)
}

// RequestStore is the donation request store accessor.
type RequestStore interface {
	Request(ctx context.Context, requestID string) (*types.DonationRequest, error)
	Requests(ctx context.Context, status *types.RequestStatus) ([]*types.DonationRequest, error)
	RequestsByOwner(ctx context.Context, ownerEmail string, status *types.RequestStatus) ([]*types.DonationRequest, error)
	Create(ctx context.Context, request *types.DonationRequest) error
	UpdateFields(ctx context.Context, requestID string, request *types.DonationRequest) error
	UpdateStatus(ctx context.Context, requestID string, status types.RequestStatus) error
	Delete(ctx context.Context, requestID string) error
	CountsByStatus(ctx context.Context) (*types.RequestCounts, error)
}

// FundStore is the funding ledger accessor.
type FundStore interface {
	FundBySessionID(ctx context.Context, sessionID string) (*types.FundRecord, error)
	Create(ctx context.Context, fund *types.FundRecord) error
	Funds(ctx context.Context) ([]*types.FundRecord, error)
	TotalCents(ctx context.Context) (int64, error)
}

// AvatarStore uploads profile photos and returns their public URL.
type AvatarStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// CognitoAuthClient is satisfied by *cognitoidentityprovider.Client.
type CognitoAuthClient interface {
	InitiateAuth(ctx context.Context, input *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

type Service struct {
	logger   *logrus.Logger
	config   *types.Config
	accounts AccountStore
	requests RequestStore
	funds    FundStore
	avatars  AvatarStore

	verifier auth.Verifier
	gateway  payment.Gateway
	cognito  CognitoAuthClient
	cookie   *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	verifier auth.Verifier,
	gateway payment.Gateway,
	cognito CognitoAuthClient,
	avatars AvatarStore,
	accounts AccountStore,
	requests RequestStore,
	funds FundStore,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:   logger,
		config:   config,
		verifier: verifier,
		gateway:  gateway,
		cognito:  cognito,
		cookie:   securecookie.New(hashKey, blockKey),

		accounts: accounts,
		requests: requests,
		funds:    funds,
		avatars:  avatars,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.HandleFunc("/donors", s.handleDonorSearch, http.MethodGet)
	r.HandleFunc("/auth/login", s.handleLogin, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/users", s.handleUpsertAccount, http.MethodPost)
		r.HandleFunc("/users/me", s.handleMe, http.MethodGet)
		r.HandleFunc("/users/profile", s.handleUpdateProfile, http.MethodPatch)
		r.HandleFunc("/users/avatar", s.handleUploadAvatar, http.MethodPost)

		r.HandleFunc("/accounts", s.handleListAccounts, http.MethodGet)

		r.HandleFunc("/donation-requests", s.handleCreateRequest, http.MethodPost)
		r.HandleFunc("/donation-requests", s.handleListRequests, http.MethodGet)
		r.HandleFunc("/donation-requests/:id", s.handleGetRequest, http.MethodGet)
		r.HandleFunc("/donation-requests/:id", s.handleUpdateRequest, http.MethodPatch)
		r.HandleFunc("/donation-requests/:id", s.handleDeleteRequest, http.MethodDelete)
		r.HandleFunc("/donation-requests/:id/status", s.handleTransitionRequest, http.MethodPatch)

		r.HandleFunc("/stats", s.handleStats, http.MethodGet)

		r.HandleFunc("/funds/checkout", s.handleCreateCheckout, http.MethodPost)
		r.HandleFunc("/funds/confirm", s.handleConfirmCheckout, http.MethodPost)
		r.HandleFunc("/funds/total", s.handleFundTotal, http.MethodGet)
		r.HandleFunc("/funds", s.handleCreateFund, http.MethodPost)
		r.HandleFunc("/funds", s.handleListFunds, http.MethodGet)

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireAdmin)

			r.HandleFunc("/admin/accounts", s.handleAdminListAccounts, http.MethodGet)
			r.HandleFunc("/admin/accounts/:email/role", s.handleUpdateAccountRole, http.MethodPatch)
			r.HandleFunc("/admin/accounts/:email/status", s.handleUpdateAccountStatus, http.MethodPatch)
		})
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// caller loads the acting account for the verified email on the
// request context.
func (s *Service) caller(r *http.Request) (*types.Account, error) {
	email, ok := r.Context().Value(contextKeyEmail).(string)
	if !ok || email == "" {
		return nil, types.ErrUnauthorized
	}

	return s.accounts.Account(r.Context(), email)
}
