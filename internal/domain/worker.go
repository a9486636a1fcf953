package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleWorker  Role = "员工"
	RoleManager Role = "经理"
	RolePlanner Role = "排班负责人"
)

type Worker struct {
	ID               int64           `json:"id"`
	Username         string          `json:"username"`
	PasswordHash     string          `json:"-"`
	FullName         string          `json:"fullName"`
	Email            string          `json:"email"`
	Role             Role            `json:"role"`
	CountryCode      string          `json:"countryCode"` // ISO 3166-1，如 DE
	RegionCode       string          `json:"regionCode"`  // ISO 3166-2 子分区，如 BY，可以为空
	CarryoverCeiling decimal.Decimal `json:"carryoverCeiling"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
	Version          int32           `json:"-"`
}

type Team struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

type TeamMember struct {
	TeamID   int64 `json:"teamID"`
	WorkerID int64 `json:"workerID"`
}

// Partnership: 共享一套轮值班表的团队组合
type Partnership struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TeamIDs   []int64   `json:"teamIDs"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
