package seed

import (
	"context"
	"fmt"

	"bloodaid/internal/store"
	"bloodaid/internal/utils"
	"bloodaid/pkg/types"
)

type fakeAccountSeed struct {
	Email      string
	Name       string
	Role       types.Role
	Status     types.AccountStatus
	BloodGroup string
	District   string
	Upazila    string
	Phone      string
}

var fakeAccounts = []fakeAccountSeed{
	{Email: "admin@bloodaid.example", Name: "Rafiq Chowdhury", Role: types.RoleAdmin, Status: types.AccountStatusActive, BloodGroup: "O+", District: "Dhaka", Upazila: "Dhanmondi", Phone: "+8801711000001"},
	{Email: "volunteer@bloodaid.example", Name: "Sabina Yasmin", Role: types.RoleVolunteer, Status: types.AccountStatusActive, BloodGroup: "A+", District: "Chattogram", Upazila: "Pahartali", Phone: "+8801711000002"},
	{Email: "ava.williams+seed1@example.com", Name: "Ava Williams", Role: types.RoleDonor, Status: types.AccountStatusActive, BloodGroup: "B+", District: "Dhaka", Upazila: "Mirpur", Phone: "+8801711000003"},
	{Email: "liam.johnson+seed2@example.com", Name: "Liam Johnson", Role: types.RoleDonor, Status: types.AccountStatusActive, BloodGroup: "AB-", District: "Sylhet", Upazila: "Beanibazar", Phone: "+8801711000004"},
	{Email: "noah.brown+seed3@example.com", Name: "Noah Brown", Role: types.RoleDonor, Status: types.AccountStatusActive, BloodGroup: "O-", District: "Khulna", Upazila: "Dumuria", Phone: "+8801711000005"},
	{Email: "mia.davis+seed4@example.com", Name: "Mia Davis", Role: types.RoleDonor, Status: types.AccountStatusBlocked, BloodGroup: "A-", District: "Rajshahi", Upazila: "Paba", Phone: "+8801711000006"},
}

// SeedFakeAccounts upserts the demo accounts, then fixes up role and
// status since sign-in upserts never touch those.
func SeedFakeAccounts(ctx context.Context, accountRepo *store.AccountRepository) (int, error) {
	seeded := 0
	for _, fake := range fakeAccounts {
		account := &types.Account{
			Email:      fake.Email,
			Name:       fake.Name,
			BloodGroup: utils.StringPtr(fake.BloodGroup),
			District:   utils.StringPtr(fake.District),
			Upazila:    utils.StringPtr(fake.Upazila),
			Phone:      utils.StringPtr(fake.Phone),
		}

		if err := accountRepo.UpsertOnLogin(ctx, account); err != nil {
			return seeded, fmt.Errorf("failed to seed account %s: %w", fake.Email, err)
		}

		if fake.Role != types.RoleDonor {
			if err := accountRepo.UpdateRole(ctx, fake.Email, fake.Role); err != nil {
				return seeded, fmt.Errorf("failed to set role for %s: %w", fake.Email, err)
			}
		}

		if fake.Status != types.AccountStatusActive {
			if err := accountRepo.UpdateStatus(ctx, fake.Email, fake.Status); err != nil {
				return seeded, fmt.Errorf("failed to set status for %s: %w", fake.Email, err)
			}
		}

		seeded++
	}

	return seeded, nil
}
