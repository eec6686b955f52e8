package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Daniel", "Karen", "Matthew", "Nancy", "Anthony", "Lisa",
}
var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Taylor", "Moore",
}

func GenerateRandomFullName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var departments = map[string][]string{
	"IT":         {"Senior Developer", "Junior Developer", "DevOps Engineer", "QA Engineer"},
	"HR":         {"HR Manager", "Recruiter"},
	"Finance":    {"Accountant", "Financial Analyst"},
	"Operations": {"Operations Manager", "Office Administrator"},
	"Sales":      {"Account Executive", "Sales Manager"},
}

func GenerateRandomDepartment() (department, designation string) {
	names := make([]string, 0, len(departments))
	for name := range departments {
		names = append(names, name)
	}
	department = names[rand.Intn(len(names))]
	designations := departments[department]
	return department, designations[rand.Intn(len(designations))]
}

var digits = "0123456789"

func GenerateRandomDigits(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}

// GenerateRandomEmployee returns an active employee. The email carries a
// random suffix so repeated runs rarely collide.
func GenerateRandomEmployee(emailDomainName string) *domain.Employee {
	fullName := GenerateRandomFullName()
	department, designation := GenerateRandomDepartment()
	phone := GenerateRandomDigits(10)
	local := strings.ToLower(strings.ReplaceAll(fullName, " ", "."))

	return &domain.Employee{
		FullName:    fullName,
		Department:  department,
		Email:       fmt.Sprintf("%s%s@%s", local, GenerateRandomDigits(3), emailDomainName),
		PhoneNumber: &phone,
		Designation: designation,
		IsActive:    true,
	}
}

type assetModel struct {
	assetType string
	vendor    string
	prefix    string
	model     string
	specs     string
}

var assetModels = []assetModel{
	{"Laptop", "Dell", "DL", "Latitude 7440", "Intel i7, 16GB RAM, 512GB SSD"},
	{"Laptop", "HP", "HP", "EliteBook 840 G10", "Intel i5, 16GB RAM, 256GB SSD"},
	{"Laptop", "Apple", "APL", "MacBook Air 13", "M2, 8GB RAM, 256GB SSD"},
	{"Monitor", "Dell", "DL", "UltraSharp 27", "27 inch, 2560x1440, IPS Panel"},
	{"Monitor", "LG", "LG", "24MP400", "24 inch, 1920x1080"},
	{"Keyboard", "Logitech", "LG", "MX Keys", "Wireless, Backlit"},
	{"Mouse", "Logitech", "LG", "MX Anywhere 3", "Wireless, Bluetooth"},
	{"Mobile Phone", "Apple", "APL", "iPhone 15", "128GB"},
	{"Mobile Phone", "Samsung", "SM", "Galaxy S24", "256GB"},
}

var conditions = []string{"New", "Good", "Good", "Fair"}

// GenerateRandomAsset returns an asset bought within the last three years
// with a warranty somewhere between already expired and three years out.
func GenerateRandomAsset() *domain.Asset {
	m := assetModels[rand.Intn(len(assetModels))]
	makeModel := m.vendor + " " + m.model
	specs := m.specs

	today := domain.DateOf(time.Now())
	purchased := today.AddDate(0, -rand.Intn(36), -rand.Intn(28))
	warranty := purchased.AddDate(rand.Intn(3)+1, rand.Intn(12), 0)

	return &domain.Asset{
		AssetName:          makeModel,
		AssetType:          m.assetType,
		MakeModel:          &makeModel,
		SerialNumber:       fmt.Sprintf("%s-%s-%s", m.prefix, strings.ToUpper(m.assetType[:3]), GenerateRandomDigits(6)),
		PurchaseDate:       purchased,
		WarrantyExpiryDate: &warranty,
		Condition:          conditions[rand.Intn(len(conditions))],
		Status:             domain.AssetStatusAvailable,
		IsSpare:            rand.Intn(4) == 0,
		Specifications:     &specs,
	}
}
