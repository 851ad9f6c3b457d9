package server

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"bloodaid/internal/payment"
	"bloodaid/pkg/types"

	"github.com/sirupsen/logrus"
)

// fakeVerifier treats the credential itself as the verified email.
type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, credential string) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", types.ErrUnauthorized
	}
	return strings.ToLower(credential), nil
}

type fakeAccountStore struct {
	accounts map[string]*types.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]*types.Account)}
}

func (f *fakeAccountStore) put(account *types.Account) {
	clone := *account
	f.accounts[clone.Email] = &clone
}

func (f *fakeAccountStore) Account(_ context.Context, email string) (*types.Account, error) {
	account, ok := f.accounts[email]
	if !ok {
		return nil, types.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (f *fakeAccountStore) UpsertOnLogin(_ context.Context, account *types.Account) error {
	now := time.Now()
	email := strings.ToLower(strings.TrimSpace(account.Email))

	existing, ok := f.accounts[email]
	if !ok {
		clone := *account
		clone.Email = email
		clone.Role = types.RoleDonor
		clone.Status = types.AccountStatusActive
		clone.CreatedAt = now
		clone.LastLogin = now
		f.accounts[email] = &clone
		return nil
	}

	existing.Name = account.Name
	if account.PhotoURL != nil {
		existing.PhotoURL = account.PhotoURL
	}
	if account.BloodGroup != nil {
		existing.BloodGroup = account.BloodGroup
	}
	if account.District != nil {
		existing.District = account.District
	}
	if account.Upazila != nil {
		existing.Upazila = account.Upazila
	}
	if account.Phone != nil {
		existing.Phone = account.Phone
	}
	existing.LastLogin = now
	return nil
}

func (f *fakeAccountStore) UpdateProfile(_ context.Context, email string, account *types.Account) error {
	existing, ok := f.accounts[email]
	if !ok {
		return types.ErrAccountNotFound
	}
	existing.Name = account.Name
	existing.PhotoURL = account.PhotoURL
	existing.BloodGroup = account.BloodGroup
	existing.District = account.District
	existing.Upazila = account.Upazila
	existing.Phone = account.Phone
	return nil
}

func (f *fakeAccountStore) SetPhotoURL(_ context.Context, email, photoURL string) error {
	existing, ok := f.accounts[email]
	if !ok {
		return types.ErrAccountNotFound
	}
	existing.PhotoURL = &photoURL
	return nil
}

func (f *fakeAccountStore) Accounts(context.Context) ([]*types.Account, error) {
	out := make([]*types.Account, 0, len(f.accounts))
	for _, account := range f.accounts {
		clone := *account
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (f *fakeAccountStore) ActiveDonors(_ context.Context, search types.DonorSearch) ([]*types.Account, error) {
	out := make([]*types.Account, 0)
	for _, account := range f.accounts {
		if account.Role != types.RoleDonor || account.Status != types.AccountStatusActive {
			continue
		}
		if search.BloodGroup != "" && (account.BloodGroup == nil || *account.BloodGroup != search.BloodGroup) {
			continue
		}
		if search.District != "" && (account.District == nil || *account.District != search.District) {
			continue
		}
		if search.Upazila != "" && (account.Upazila == nil || *account.Upazila != search.Upazila) {
			continue
		}
		clone := *account
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (f *fakeAccountStore) UpdateRole(_ context.Context, email string, role types.Role) error {
	existing, ok := f.accounts[email]
	if !ok {
		return types.ErrAccountNotFound
	}
	existing.Role = role
	return nil
}

func (f *fakeAccountStore) UpdateStatus(_ context.Context, email string, status types.AccountStatus) error {
	existing, ok := f.accounts[email]
	if !ok {
		return types.ErrAccountNotFound
	}
	existing.Status = status
	return nil
}

func (f *fakeAccountStore) CountByRole(context.Context) (map[types.Role]int64, error) {
	counts := make(map[types.Role]int64)
	for _, account := range f.accounts {
		counts[account.Role]++
	}
	return counts, nil
}

type fakeRequestStore struct {
	requests map[string]*types.DonationRequest
	nextID   int
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[string]*types.DonationRequest)}
}

func (f *fakeRequestStore) Request(_ context.Context, requestID string) (*types.DonationRequest, error) {
	request, ok := f.requests[requestID]
	if !ok {
		return nil, types.ErrRequestNotFound
	}
	clone := *request
	return &clone, nil
}

func (f *fakeRequestStore) Requests(_ context.Context, status *types.RequestStatus) ([]*types.DonationRequest, error) {
	out := make([]*types.DonationRequest, 0)
	for _, request := range f.requests {
		if status != nil && request.Status != *status {
			continue
		}
		clone := *request
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRequestStore) RequestsByOwner(_ context.Context, ownerEmail string, status *types.RequestStatus) ([]*types.DonationRequest, error) {
	out := make([]*types.DonationRequest, 0)
	for _, request := range f.requests {
		if request.RequesterEmail != ownerEmail {
			continue
		}
		if status != nil && request.Status != *status {
			continue
		}
		clone := *request
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRequestStore) Create(_ context.Context, request *types.DonationRequest) error {
	f.nextID++
	now := time.Now()
	request.ID = fmt.Sprintf("req-%d", f.nextID)
	request.Status = types.RequestStatusPending
	request.CreatedAt = now
	request.UpdatedAt = now

	clone := *request
	f.requests[clone.ID] = &clone
	return nil
}

func (f *fakeRequestStore) UpdateFields(_ context.Context, requestID string, request *types.DonationRequest) error {
	existing, ok := f.requests[requestID]
	if !ok {
		return types.ErrRequestNotFound
	}
	existing.RecipientName = request.RecipientName
	existing.RecipientDistrict = request.RecipientDistrict
	existing.RecipientUpazila = request.RecipientUpazila
	existing.Hospital = request.Hospital
	existing.Address = request.Address
	existing.BloodGroup = request.BloodGroup
	existing.DonationDate = request.DonationDate
	existing.DonationTime = request.DonationTime
	existing.Message = request.Message
	existing.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRequestStore) UpdateStatus(_ context.Context, requestID string, status types.RequestStatus) error {
	existing, ok := f.requests[requestID]
	if !ok {
		return types.ErrRequestNotFound
	}
	existing.Status = status
	existing.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRequestStore) Delete(_ context.Context, requestID string) error {
	delete(f.requests, requestID)
	return nil
}

func (f *fakeRequestStore) CountsByStatus(context.Context) (*types.RequestCounts, error) {
	counts := new(types.RequestCounts)
	for _, request := range f.requests {
		switch request.Status {
		case types.RequestStatusPending:
			counts.Pending++
		case types.RequestStatusInprogress:
			counts.Inprogress++
		case types.RequestStatusDone:
			counts.Done++
		case types.RequestStatusCanceled:
			counts.Canceled++
		}
	}
	return counts, nil
}

type fakeFundStore struct {
	funds  []*types.FundRecord
	nextID int
}

func newFakeFundStore() *fakeFundStore {
	return &fakeFundStore{}
}

func (f *fakeFundStore) FundBySessionID(_ context.Context, sessionID string) (*types.FundRecord, error) {
	for _, fund := range f.funds {
		if fund.SessionID != nil && *fund.SessionID == sessionID {
			clone := *fund
			return &clone, nil
		}
	}
	return nil, types.ErrFundNotFound
}

func (f *fakeFundStore) Create(_ context.Context, fund *types.FundRecord) error {
	f.nextID++
	fund.ID = fmt.Sprintf("fund-%d", f.nextID)
	fund.CreatedAt = time.Now()

	clone := *fund
	f.funds = append(f.funds, &clone)
	return nil
}

func (f *fakeFundStore) Funds(context.Context) ([]*types.FundRecord, error) {
	out := make([]*types.FundRecord, 0, len(f.funds))
	for _, fund := range f.funds {
		clone := *fund
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeFundStore) TotalCents(context.Context) (int64, error) {
	var total int64
	for _, fund := range f.funds {
		total += fund.AmountCents
	}
	return total, nil
}

type fakeGateway struct {
	sessions map[string]*payment.CheckoutSession
	created  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]*payment.CheckoutSession)}
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, amountCents int64, label string) (*payment.CheckoutSession, error) {
	f.created++
	session := &payment.CheckoutSession{
		ID:            fmt.Sprintf("cs_test_%d", f.created),
		URL:           fmt.Sprintf("https://checkout.example/%d", f.created),
		PaymentStatus: "unpaid",
		AmountCents:   amountCents,
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeGateway) RetrieveSession(_ context.Context, sessionID string) (*payment.CheckoutSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session %s", sessionID)
	}
	clone := *session
	return &clone, nil
}

type fakeAvatarStore struct {
	uploads map[string]string
}

func (f *fakeAvatarStore) Upload(_ context.Context, key string, body io.Reader, contentType string) (string, error) {
	if f.uploads == nil {
		f.uploads = make(map[string]string)
	}
	f.uploads[key] = contentType
	return "https://avatars.example/" + key, nil
}

type testEnv struct {
	service  *Service
	accounts *fakeAccountStore
	requests *fakeRequestStore
	funds    *fakeFundStore
	gateway  *fakeGateway
}

func newTestEnv() *testEnv {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	accounts := newFakeAccountStore()
	requests := newFakeRequestStore()
	funds := newFakeFundStore()
	gateway := newFakeGateway()

	service, err := New(
		&types.Config{ServerPort: 0, ReadTimeoutSec: 1, WriteTimeoutSec: 1},
		logger,
		fakeVerifier{},
		gateway,
		nil,
		&fakeAvatarStore{},
		accounts,
		requests,
		funds,
	)
	if err != nil {
		panic(err)
	}

	return &testEnv{
		service:  service,
		accounts: accounts,
		requests: requests,
		funds:    funds,
		gateway:  gateway,
	}
}

// do routes a request through the full middleware stack. asEmail is
// passed as the bearer credential; the fake verifier resolves it
// verbatim.
func (e *testEnv) do(method, target, asEmail string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if asEmail != "" {
		req.Header.Set("Authorization", "Bearer "+asEmail)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	e.service.server.Handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) seedAccount(email string, role types.Role, status types.AccountStatus) {
	e.accounts.put(&types.Account{
		Email:     email,
		Name:      strings.SplitN(email, "@", 2)[0],
		Role:      role,
		Status:    status,
		CreatedAt: time.Now(),
		LastLogin: time.Now(),
	})
}
