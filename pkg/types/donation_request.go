package types

import "time"

type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusInprogress RequestStatus = "inprogress"
	RequestStatusDone       RequestStatus = "done"
	RequestStatusCanceled   RequestStatus = "canceled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusInprogress, RequestStatusDone, RequestStatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusDone || s == RequestStatusCanceled
}

// DonationRequest is owned by the account whose email matches
// RequesterEmail. Requester fields and Status never change through
// general field updates.
type DonationRequest struct {
	ID                string        `db:"id" json:"id"`
	RequesterEmail    string        `db:"requester_email" json:"requesterEmail"`
	RequesterName     string        `db:"requester_name" json:"requesterName"`
	RecipientName     string        `db:"recipient_name" json:"recipientName"`
	RecipientDistrict string        `db:"recipient_district" json:"recipientDistrict"`
	RecipientUpazila  string        `db:"recipient_upazila" json:"recipientUpazila"`
	Hospital          string        `db:"hospital" json:"hospital"`
	Address           string        `db:"address" json:"address"`
	BloodGroup        string        `db:"blood_group" json:"bloodGroup"`
	DonationDate      string        `db:"donation_date" json:"donationDate"`
	DonationTime      string        `db:"donation_time" json:"donationTime"`
	Message           *string       `db:"message" json:"message,omitempty"`
	Status            RequestStatus `db:"status" json:"status"`
	CreatedAt         time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updatedAt"`
}

// DonationRequestUpdate holds the fields a general update may touch.
// Nil means leave unchanged. Requester identity and status have no
// representation here, so payloads carrying them are dropped rather
// than rejected.
type DonationRequestUpdate struct {
	RecipientName     *string `json:"recipientName"`
	RecipientDistrict *string `json:"recipientDistrict"`
	RecipientUpazila  *string `json:"recipientUpazila"`
	Hospital          *string `json:"hospital"`
	Address           *string `json:"address"`
	BloodGroup        *string `json:"bloodGroup"`
	DonationDate      *string `json:"donationDate"`
	DonationTime      *string `json:"donationTime"`
	Message           *string `json:"message"`
}

// Empty reports whether the update carries no permitted field at all.
func (u *DonationRequestUpdate) Empty() bool {
	return u.RecipientName == nil && u.RecipientDistrict == nil && u.RecipientUpazila == nil &&
		u.Hospital == nil && u.Address == nil && u.BloodGroup == nil &&
		u.DonationDate == nil && u.DonationTime == nil && u.Message == nil
}

// Apply copies the non-nil fields onto the request.
func (u *DonationRequestUpdate) Apply(req *DonationRequest) {
	if u.RecipientName != nil {
		req.RecipientName = *u.RecipientName
	}
	if u.RecipientDistrict != nil {
		req.RecipientDistrict = *u.RecipientDistrict
	}
	if u.RecipientUpazila != nil {
		req.RecipientUpazila = *u.RecipientUpazila
	}
	if u.Hospital != nil {
		req.Hospital = *u.Hospital
	}
	if u.Address != nil {
		req.Address = *u.Address
	}
	if u.BloodGroup != nil {
		req.BloodGroup = *u.BloodGroup
	}
	if u.DonationDate != nil {
		req.DonationDate = *u.DonationDate
	}
	if u.DonationTime != nil {
		req.DonationTime = *u.DonationTime
	}
	if u.Message != nil {
		req.Message = u.Message
	}
}

// RequestCounts aggregates requests by status for the stats endpoint.
type RequestCounts struct {
	Pending    int64 `json:"pending"`
	Inprogress int64 `json:"inprogress"`
	Done       int64 `json:"done"`
	Canceled   int64 `json:"canceled"`
}
