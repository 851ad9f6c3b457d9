package seed

import (
	"context"
	"fmt"

	"bloodaid/internal/store"
	"bloodaid/internal/utils"
	"bloodaid/pkg/types"
)

var fakeRequests = []types.DonationRequest{
	{
		RequesterEmail:    "ava.williams+seed1@example.com",
		RequesterName:     "Ava Williams",
		RecipientName:     "Kamal Hossain",
		RecipientDistrict: "Dhaka",
		RecipientUpazila:  "Mirpur",
		Hospital:          "Dhaka Medical College Hospital",
		Address:           "Secretariat Road, Dhaka 1000",
		BloodGroup:        "B+",
		DonationDate:      "2026-09-15",
		DonationTime:      "10:30",
	},
	{
		RequesterEmail:    "liam.johnson+seed2@example.com",
		RequesterName:     "Liam Johnson",
		RecipientName:     "Farida Begum",
		RecipientDistrict: "Sylhet",
		RecipientUpazila:  "Beanibazar",
		Hospital:          "Sylhet MAG Osmani Medical College",
		Address:           "Medical College Road, Sylhet 3100",
		BloodGroup:        "AB-",
		DonationDate:      "2026-09-20",
		DonationTime:      "14:00",
	},
	{
		RequesterEmail:    "noah.brown+seed3@example.com",
		RequesterName:     "Noah Brown",
		RecipientName:     "Abdul Karim",
		RecipientDistrict: "Khulna",
		RecipientUpazila:  "Dumuria",
		Hospital:          "Khulna Medical College Hospital",
		Address:           "Boyra Main Road, Khulna 9000",
		BloodGroup:        "O-",
		DonationDate:      "2026-10-01",
		DonationTime:      "09:00",
	},
}

func SeedFakeRequests(ctx context.Context, requestRepo *store.RequestRepository) (int, error) {
	seeded := 0
	for _, fake := range fakeRequests {
		request := fake
		request.Message = utils.StringPtr("Urgent, please contact the requester.")

		if err := requestRepo.Create(ctx, &request); err != nil {
			return seeded, fmt.Errorf("failed to seed request for %s: %w", fake.RequesterEmail, err)
		}

		seeded++
	}

	return seeded, nil
}
