package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/inventory"
)

type sampleEmployee struct {
	fullName    string
	department  string
	email       string
	phone       string
	designation string
	active      bool
}

var sampleEmployees = []sampleEmployee{
	{"John Doe", "IT", "john.doe@company.com", "1234567890", "Senior Developer", true},
	{"Jane Smith", "HR", "jane.smith@company.com", "0987654321", "HR Manager", true},
	{"Mike Johnson", "IT", "mike.johnson@company.com", "5551234567", "Junior Developer", true},
	{"Sarah Williams", "Finance", "sarah.williams@company.com", "5559876543", "Accountant", true},
	{"David Brown", "IT", "david.brown@company.com", "5556781234", "DevOps Engineer", false},
}

// offsets are relative to the seeding day, as {years, months}
type sampleAsset struct {
	name      string
	assetType string
	makeModel string
	serial    string
	purchased [2]int
	warranty  [2]int
	condition string
	status    domain.AssetStatus
	spare     bool
	specs     string
}

var sampleAssets = []sampleAsset{
	{"Dell Laptop XPS 15", "Laptop", "Dell XPS 15 9520", "DL-XPS-001", [2]int{-1, 0}, [2]int{2, 0}, "Good", domain.AssetStatusAvailable, false, "Intel i7, 16GB RAM, 512GB SSD"},
	{"HP Laptop ProBook", "Laptop", "HP ProBook 450 G9", "HP-PRO-002", [2]int{-2, 0}, [2]int{1, 0}, "Good", domain.AssetStatusAvailable, false, "Intel i5, 8GB RAM, 256GB SSD"},
	{`Samsung Monitor 27"`, "Monitor", `Samsung 27" LED`, "SM-MON-003", [2]int{0, -18}, [2]int{0, 6}, "Good", domain.AssetStatusAvailable, false, "27 inch, 1920x1080, IPS Panel"},
	{`LG Monitor 24"`, "Monitor", `LG 24" LED`, "LG-MON-004", [2]int{0, -12}, [2]int{2, 0}, "Good", domain.AssetStatusAvailable, true, "24 inch, 1920x1080"},
	{"Logitech Keyboard", "Keyboard", "Logitech K380", "LG-KB-005", [2]int{0, -6}, [2]int{1, 0}, "New", domain.AssetStatusAvailable, false, "Wireless, Bluetooth"},
	{"Logitech Mouse", "Mouse", "Logitech MX Master 3", "LG-MS-006", [2]int{0, -8}, [2]int{0, 16}, "Good", domain.AssetStatusAvailable, true, "Wireless, Ergonomic"},
	{"iPhone 13", "Mobile Phone", "Apple iPhone 13", "APL-IP-007", [2]int{-1, 0}, [2]int{0, 1}, "Good", domain.AssetStatusAvailable, false, "128GB, Blue"},
	{"MacBook Pro 14", "Laptop", "Apple MacBook Pro 14", "APL-MBP-008", [2]int{0, -3}, [2]int{0, 33}, "New", domain.AssetStatusUnderRepair, false, "M2 Pro, 16GB RAM, 512GB SSD"},
	{`Dell Monitor 32"`, "Monitor", "Dell UltraSharp 32", "DL-MON-009", [2]int{-3, 0}, [2]int{0, -6}, "Needs Repair", domain.AssetStatusRetired, false, "32 inch, 4K"},
	{"HP Laptop EliteBook", "Laptop", "HP EliteBook 840 G8", "HP-ELT-010", [2]int{0, -10}, [2]int{2, 0}, "Good", domain.AssetStatusAvailable, false, "Intel i7, 16GB RAM, 512GB SSD"},
}

// SeedSampleData inserts the demo employees and assets through the service so
// every business rule applies. Rows that already exist are skipped, which
// makes the seed safe to run twice.
func SeedSampleData(ctx context.Context, svc *inventory.Service, now time.Time) error {
	today := domain.DateOf(now)

	employees := 0
	for _, e := range sampleEmployees {
		phone := e.phone
		employee := &domain.Employee{
			FullName:    e.fullName,
			Department:  e.department,
			Email:       e.email,
			PhoneNumber: &phone,
			Designation: e.designation,
			IsActive:    e.active,
		}
		if err := svc.AddEmployee(ctx, employee); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				slog.Info("employee already present, skipping", slog.String("email", e.email))
				continue
			}
			return fmt.Errorf("add employee %s: %w", e.email, err)
		}
		employees++
	}

	assets := 0
	for _, a := range sampleAssets {
		makeModel, specs := a.makeModel, a.specs
		warranty := today.AddDate(a.warranty[0], a.warranty[1], 0)
		asset := &domain.Asset{
			AssetName:          a.name,
			AssetType:          a.assetType,
			MakeModel:          &makeModel,
			SerialNumber:       a.serial,
			PurchaseDate:       today.AddDate(a.purchased[0], a.purchased[1], 0),
			WarrantyExpiryDate: &warranty,
			Condition:          a.condition,
			IsSpare:            a.spare,
			Specifications:     &specs,
		}
		if err := svc.AddAsset(ctx, asset); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				slog.Info("asset already present, skipping", slog.String("serial_number", a.serial))
				continue
			}
			return fmt.Errorf("add asset %s: %w", a.serial, err)
		}

		// new assets always start Available
		if a.status != domain.AssetStatusAvailable {
			if err := svc.ChangeStatus(ctx, asset.ID, a.status); err != nil {
				return fmt.Errorf("change status of %s: %w", a.serial, err)
			}
		}
		assets++
	}

	slog.Info("sample data seeded", slog.Int("employees", employees), slog.Int("assets", assets))
	return nil
}
