package types

import "time"

type Role string

const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "active"
	AccountStatusBlocked AccountStatus = "blocked"
)

func (s AccountStatus) Valid() bool {
	return s == AccountStatusActive || s == AccountStatusBlocked
}

// Account is keyed by email; exactly one record exists per email.
type Account struct {
	Email      string        `db:"email" json:"email"`
	Name       string        `db:"name" json:"name"`
	PhotoURL   *string       `db:"photo_url" json:"photoUrl,omitempty"`
	Role       Role          `db:"role" json:"role"`
	Status     AccountStatus `db:"status" json:"status"`
	BloodGroup *string       `db:"blood_group" json:"bloodGroup,omitempty"`
	District   *string       `db:"district" json:"district,omitempty"`
	Upazila    *string       `db:"upazila" json:"upazila,omitempty"`
	Phone      *string       `db:"phone" json:"phone,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	LastLogin  time.Time     `db:"last_login" json:"lastLogin"`
}

// PublicDonor is the projection exposed on the public donor listing.
// Contact phone and login metadata stay out of it.
type PublicDonor struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	PhotoURL   *string `json:"photoUrl,omitempty"`
	BloodGroup *string `json:"bloodGroup,omitempty"`
	District   *string `json:"district,omitempty"`
	Upazila    *string `json:"upazila,omitempty"`
}

func (a *Account) PublicDonor() PublicDonor {
	return PublicDonor{
		Email:      a.Email,
		Name:       a.Name,
		PhotoURL:   a.PhotoURL,
		BloodGroup: a.BloodGroup,
		District:   a.District,
		Upazila:    a.Upazila,
	}
}

// AccountSummary is the reduced projection volunteers see on account
// listings.
type AccountSummary struct {
	Email      string        `json:"email"`
	Name       string        `json:"name"`
	Role       Role          `json:"role"`
	Status     AccountStatus `json:"status"`
	BloodGroup *string       `json:"bloodGroup,omitempty"`
	District   *string       `json:"district,omitempty"`
	Upazila    *string       `json:"upazila,omitempty"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		Email:      a.Email,
		Name:       a.Name,
		Role:       a.Role,
		Status:     a.Status,
		BloodGroup: a.BloodGroup,
		District:   a.District,
		Upazila:    a.Upazila,
	}
}

// AccountProfileUpdate holds the self-service profile fields. Role,
// status, and email have no representation here; payloads carrying
// them are dropped.
type AccountProfileUpdate struct {
	Name       *string `json:"name"`
	PhotoURL   *string `json:"photoUrl"`
	BloodGroup *string `json:"bloodGroup"`
	District   *string `json:"district"`
	Upazila    *string `json:"upazila"`
	Phone      *string `json:"phone"`
}

// Apply copies the non-nil fields onto the account.
func (u *AccountProfileUpdate) Apply(a *Account) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.PhotoURL != nil {
		a.PhotoURL = u.PhotoURL
	}
	if u.BloodGroup != nil {
		a.BloodGroup = u.BloodGroup
	}
	if u.District != nil {
		a.District = u.District
	}
	if u.Upazila != nil {
		a.Upazila = u.Upazila
	}
	if u.Phone != nil {
		a.Phone = u.Phone
	}
}

// DonorSearch carries the public donor listing filters, decoded from
// URL query values.
type DonorSearch struct {
	BloodGroup string `form:"blood_group"`
	District   string `form:"district"`
	Upazila    string `form:"upazila"`
}
