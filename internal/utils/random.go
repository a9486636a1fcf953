package utils

import (
	"math/rand"
	"strings"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"Anna", "Ben", "Clara", "David", "Emma", "Felix", "Greta", "Hannah", "Jonas", "Katja",
	"Lena", "Lukas", "Marie", "Niklas", "Paula", "Simon", "Sofia", "Tim", "Valerie", "Wolfgang",
}
var commonLastNames = []string{
	"Müller", "Schmidt", "Schneider", "Fischer", "Weber", "Meyer", "Wagner", "Becker",
	"Schulz", "Hoffmann", "Koch", "Bauer", "Richter", "Klein", "Wolf", "Schröder",
}

func GenerateRandomWorkerName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonLastNames[rand.Intn(len(commonLastNames))]
	return first + " " + last
}

var digits = "0123456789"

// umlautReplacer 把用户名中的变音字符换成 ASCII 形式
var umlautReplacer = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

func GenerateUsernameFromName(fullName string) string {
	parts := strings.Fields(strings.ToLower(fullName))
	username := umlautReplacer.Replace(strings.Join(parts, "."))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var roles = []domain.Role{
	domain.RoleWorker,
	domain.RoleWorker,
	domain.RoleWorker,
	domain.RoleManager,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

// 员工所在地区按国家随机，空字符串表示没有子分区信息
var regionsByCountry = map[string][]string{
	"DE": {"BY", "BW", "NW", "HE", ""},
	"AT": {"W", "T", ""},
}

func GenerateRandomWorker(password string, emailDomainName string) (*domain.Worker, error) {
	fullName := GenerateRandomWorkerName()
	username := GenerateUsernameFromName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	countries := []string{"DE", "DE", "DE", "AT"}
	countryCode := countries[rand.Intn(len(countries))]
	regions := regionsByCountry[countryCode]

	worker := &domain.Worker{
		Username:         username,
		PasswordHash:     string(passwordHash),
		FullName:         fullName,
		Email:            username + "@" + emailDomainName,
		Role:             GenerateRandomRole(),
		CountryCode:      countryCode,
		RegionCode:       regions[rand.Intn(len(regions))],
		CarryoverCeiling: decimal.NewFromInt(int64(20 + rand.Intn(3)*10)),
		IsActive:         true,
	}

	return worker, nil
}
