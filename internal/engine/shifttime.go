package engine

import (
	"slices"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

// Resolution: 解析出的具体班次时间
type Resolution struct {
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Description  string `json:"description"`
	DefinitionID *int64 `json:"definitionID"` // 命中硬编码默认值时为空
}

// ResolveRequest: 一次班次时间查询
type ResolveRequest struct {
	TeamID       *int64           `json:"teamID"`
	CountryCode  string           `json:"countryCode"`
	RegionCode   string           `json:"regionCode"`
	ShiftType    domain.ShiftType `json:"shiftType"`
	Weekday      int32            `json:"weekday"` // 1 = 周一 ... 7 = 周日
	Date         time.Time        `json:"date"`
	DefinitionID *int64           `json:"definitionID"` // 显式指定定义时绕过所有匹配规则
}

// 没有任何定义命中时按班次类型回退的硬编码默认时间
var defaultTimes = map[domain.ShiftType]Resolution{
	domain.ShiftTypeNormal:  {StartTime: "08:00", EndTime: "16:30", Description: "常规班"},
	domain.ShiftTypeEarly:   {StartTime: "06:00", EndTime: "14:00", Description: "早班"},
	domain.ShiftTypeLate:    {StartTime: "14:00", EndTime: "22:00", Description: "晚班"},
	domain.ShiftTypeWeekend: {StartTime: "08:00", EndTime: "16:00", Description: "周末班"},
}

// Resolver 在一批预先加载的班次时间定义上按固定的特异性级联做解析
// 解析是全函数：任何输入都有结果，永远不会失败
type Resolver struct {
	definitions []*domain.ShiftTimeDefinition
	classifier  *Classifier
}

func NewResolver(definitions []*domain.ShiftTimeDefinition, classifier *Classifier) *Resolver {
	return &Resolver{
		definitions: definitions,
		classifier:  classifier,
	}
}

// stage: 级联中的一层，按顺序求值，第一个命中的层胜出
// 用谓词列表而不是嵌套条件来表达，方便逐层审计和测试
type stage struct {
	name  string
	match func(def *domain.ShiftTimeDefinition, req *ResolveRequest, weekendEligible bool) bool
}

var stages = []stage{
	{
		// 团队 + 地区 + 适用日全部匹配；具备周末资格时豁免适用日检查
		name: "team_region_day",
		match: func(def *domain.ShiftTimeDefinition, req *ResolveRequest, weekendEligible bool) bool {
			if req.TeamID == nil || !def.AppliesToTeam(*req.TeamID) {
				return false
			}
			if !localeMatch(def, req) {
				return false
			}
			return weekendEligible || dayMatch(def, req.Weekday)
		},
	},
	{
		// 团队 + 地区匹配，定义不限定适用日
		name: "team_region",
		match: func(def *domain.ShiftTimeDefinition, req *ResolveRequest, _ bool) bool {
			if req.TeamID == nil || !def.AppliesToTeam(*req.TeamID) {
				return false
			}
			return localeMatch(def, req) && len(def.Weekdays) == 0
		},
	},
	{
		// 只限定团队的定义
		name: "team_only",
		match: func(def *domain.ShiftTimeDefinition, req *ResolveRequest, _ bool) bool {
			if req.TeamID == nil || !def.AppliesToTeam(*req.TeamID) {
				return false
			}
			return !def.HasLocaleScope() && len(def.Weekdays) == 0
		},
	},
	{
		// 只限定地区的定义
		name: "region_only",
		match: func(def *domain.ShiftTimeDefinition, req *ResolveRequest, _ bool) bool {
			return !def.HasTeamScope() && localeMatch(def, req) && len(def.Weekdays) == 0
		},
	},
	{
		// 全局默认定义
		name: "global",
		match: func(def *domain.ShiftTimeDefinition, req *ResolveRequest, _ bool) bool {
			return !def.HasTeamScope() && !def.HasLocaleScope() && len(def.Weekdays) == 0
		},
	},
}

func localeMatch(def *domain.ShiftTimeDefinition, req *ResolveRequest) bool {
	if def.RegionCode != "" && def.RegionCode == req.RegionCode {
		return true
	}
	if len(def.CountryCodes) > 0 && slices.Contains(def.CountryCodes, req.CountryCode) {
		return true
	}
	return false
}

func dayMatch(def *domain.ShiftTimeDefinition, weekday int32) bool {
	return len(def.Weekdays) == 0 || slices.Contains(def.Weekdays, weekday)
}

// Resolve 按级联顺序解析班次时间，任何情况下都返回一个结果
func (r *Resolver) Resolve(req *ResolveRequest) Resolution {
	// 第一步：显式指定了定义且能找到时直接使用，跳过所有匹配规则
	if req.DefinitionID != nil {
		for _, def := range r.definitions {
			if def.ID == *req.DefinitionID {
				return toResolution(def)
			}
		}
	}

	// 第二步：周末班次只有在周六日或者中心维护的公共假期才具备周末资格
	weekendEligible := false
	if req.ShiftType == domain.ShiftTypeWeekend {
		weekendEligible = IsWeekend(req.Date) ||
			r.classifier.IsPublicHoliday(req.Date, req.CountryCode, req.RegionCode)
	}

	// 级联中每一层都只考虑请求的班次类型
	candidates := make([]*domain.ShiftTimeDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		if def.ShiftType == req.ShiftType {
			candidates = append(candidates, def)
		}
	}

	for _, s := range stages {
		var matched []*domain.ShiftTimeDefinition
		for _, def := range candidates {
			if s.match(def, req, weekendEligible) {
				matched = append(matched, def)
			}
		}
		if len(matched) > 0 {
			return toResolution(mostSpecific(matched))
		}
	}

	return defaultTimes[req.ShiftType]
}

// mostSpecific 在同一层内命中多条定义时做确定性的择优：
// 团队限定优先于全局，限定适用日优先于不限定，适用日更少的更具体，最后按 ID 兜底
func mostSpecific(defs []*domain.ShiftTimeDefinition) *domain.ShiftTimeDefinition {
	best := defs[0]
	for _, def := range defs[1:] {
		if moreSpecific(def, best) {
			best = def
		}
	}
	return best
}

func moreSpecific(a, b *domain.ShiftTimeDefinition) bool {
	if a.HasTeamScope() != b.HasTeamScope() {
		return a.HasTeamScope()
	}
	aDays, bDays := len(a.Weekdays), len(b.Weekdays)
	if (aDays > 0) != (bDays > 0) {
		return aDays > 0
	}
	if aDays != bDays {
		return aDays < bDays
	}
	return a.ID < b.ID
}

func toResolution(def *domain.ShiftTimeDefinition) Resolution {
	id := def.ID
	return Resolution{
		StartTime:    def.StartTime,
		EndTime:      def.EndTime,
		Description:  def.Description,
		DefinitionID: &id,
	}
}
