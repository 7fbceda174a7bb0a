// Package seed loads the initial users, brands and devices.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/devicehub/devicehub/internal/model"
	"github.com/devicehub/devicehub/internal/service"
)

// Fixed identifiers of the seeded entities.
var (
	AdminID = uuid.MustParse("c4804e0f-769e-4ab9-9ebe-0578fb4f00a6")
	KevinID = uuid.MustParse("81e1c2a9-7f57-439b-b53d-6db88b071e4e")
	AliceID = uuid.MustParse("ed6cfb2a-cad7-47dd-9b56-9d1e3c7a4197")

	SasungID     = uuid.MustParse("f5875513-bf7b-4ae1-b8a5-5b70a1b90e76")
	SongID       = uuid.MustParse("5d1da2ae-6a14-4b6d-8b4f-d117867118d4")
	MitsubushiID = uuid.MustParse("2d9b1e8c-67c5-4188-a911-5f064a63d8cd")
	LPID         = uuid.MustParse("9a0c7e55-3f1d-4f43-a0a4-6b1f3c2d8e17")

	FridgeID = uuid.MustParse("525d3e7b-bb1f-4c13-bf17-926d1a12e4c0")
	PhoneID  = uuid.MustParse("cc0b0577-bb6f-45b7-81d6-3db88e6ac19f")
	TVID     = uuid.MustParse("f08ef7e3-7f2a-4378-b1fb-2922d730c70d")
	TabletID = uuid.MustParse("ff327e8a-77c0-4f9b-90a2-89e16895d1e1")
)

// Services groups the services the seed writes through.
type Services struct {
	Users   *service.UserService
	Brands  *service.BrandService
	Devices *service.DeviceService
}

// Result counts the seeded entities.
type Result struct {
	Users   int
	Brands  int
	Devices int
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Load writes the initial data set through svc. Brands are dated at today.
// It expects an empty store and stops at the first failure.
func Load(ctx context.Context, svc Services, now time.Time, logger *slog.Logger) (Result, error) {
	var res Result
	today := date(now.Year(), now.Month(), now.Day())

	users := []service.CreateUserInput{
		{
			ID:        AdminID,
			Login:     "admin",
			Name:      "System",
			Surname:   "Admin",
			BirthDate: date(1990, time.October, 21),
			Email:     "admin@simplerpg.example.com",
			Password:  "adminadmin",
			Roles:     []model.Role{model.RoleAdmin, model.RoleUser},
		},
		{
			ID:        KevinID,
			Login:     "kevin",
			Name:      "Kevin",
			Surname:   "Pear",
			BirthDate: date(2001, time.January, 16),
			Email:     "kevin@example.com",
			Password:  "useruser",
			Roles:     []model.Role{model.RoleUser},
		},
		{
			ID:        AliceID,
			Login:     "alice",
			Name:      "Alice",
			Surname:   "Grape",
			BirthDate: date(2002, time.March, 19),
			Email:     "alice@example.com",
			Password:  "useruser",
			Roles:     []model.Role{model.RoleUser},
		},
	}
	for _, in := range users {
		if _, err := svc.Users.Create(ctx, in); err != nil {
			return res, fmt.Errorf("seed user %s: %w", in.Login, err)
		}
		res.Users++
	}

	brands := []struct {
		id   uuid.UUID
		name string
	}{
		{SasungID, "Sasung"},
		{SongID, "Song"},
		{MitsubushiID, "Mitsubushi"},
		{LPID, "LP"},
	}
	for _, b := range brands {
		if _, err := svc.Brands.Create(ctx, b.id, service.BrandInput{Name: b.name, EstablishedAt: today}); err != nil {
			return res, fmt.Errorf("seed brand %s: %w", b.name, err)
		}
		res.Brands++
	}

	devices := []struct {
		id uuid.UUID
		in service.DeviceInput
	}{
		{FridgeID, service.DeviceInput{Name: "LODUFKA 2000", Price: 3000, Mass: 80000, Type: model.DeviceTypeFridge, UserID: KevinID, BrandID: SasungID}},
		{PhoneID, service.DeviceInput{Name: "oiehfoihsaef", Price: 1000, Mass: 300, Type: model.DeviceTypePhone, UserID: KevinID, BrandID: MitsubushiID}},
		{TVID, service.DeviceInput{Name: "flat10000", Price: 5000, Mass: 10000, Type: model.DeviceTypeTV, UserID: AliceID, BrandID: SongID}},
		{TabletID, service.DeviceInput{Name: "tablet", Price: 500, Mass: 500, Type: model.DeviceTypeTablet, UserID: AliceID, BrandID: LPID}},
	}
	for _, d := range devices {
		if _, err := svc.Devices.Create(ctx, d.id, d.in); err != nil {
			return res, fmt.Errorf("seed device %s: %w", d.in.Name, err)
		}
		res.Devices++
	}

	logger.Info("seed_loaded", "users", res.Users, "brands", res.Brands, "devices", res.Devices)
	return res, nil
}
