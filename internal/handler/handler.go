package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/schichtplan-dev/schichtplan/backend/internal/config"
	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/schichtplan-dev/schichtplan/backend/internal/repository"
)

type Handler struct {
	validate            *validator.Validate
	config              *config.Config
	repository          *repository.Repository
	translator          ut.Translator
	notificationChannel *amqp.Channel
	redisClient         *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:            validate,
		config:              cfg,
		repository:          repo,
		translator:          trans,
		notificationChannel: notifyCh,
		redisClient:         rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 所有 API 都要求持有外部认证服务签发的令牌
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/classify", h.ClassifyDay)
		})

		r.Route("/shift-times", func(r chi.Router) {
			r.With(h.myInfo).Post("/resolve", h.ResolveShiftTime)
			r.With(h.RequiredRole([]domain.Role{domain.RolePlanner})).Post("/", h.CreateShiftTimeDefinition)
			r.Get("/", h.GetAllShiftTimeDefinitions)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftTimeDefinition)
				r.Get("/", h.GetShiftTimeDefinition)
				r.With(h.RequiredRole([]domain.Role{domain.RolePlanner})).Patch("/", h.UpdateShiftTimeDefinition)
				r.With(h.RequiredRole([]domain.Role{domain.RolePlanner})).Delete("/", h.DeleteShiftTimeDefinition)
			})
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/", h.CreateHolidayRecord)
			r.Get("/", h.GetMyHolidays)
			r.With(h.RequiredRole([]domain.Role{domain.RolePlanner})).Delete("/{id}", h.DeleteHolidayRecord)
		})

		r.Route("/rotation-patterns", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RolePlanner})).Post("/", h.CreateRotationPattern)
			r.Get("/", h.GetAllRotationPatterns)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.rotationPattern)
				r.Get("/", h.GetRotationPattern)
				r.With(h.RequiredRole([]domain.Role{domain.RolePlanner})).Delete("/", h.DeleteRotationPattern)
				r.Post("/expand", h.ExpandRotationPattern)
				r.With(h.RequiredRole([]domain.Role{domain.RolePlanner})).With(h.myInfo).Post("/apply", h.ApplyRotationPattern)
			})
		})

		r.Route("/rosters", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RolePlanner})).Post("/", h.CreateRoster)
			r.Get("/", h.GetAllRosters)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.roster)
				r.Get("/", h.GetRoster)
				r.With(h.RequiredRole([]domain.Role{domain.RolePlanner})).Delete("/", h.DeleteRoster)
				r.Get("/approvals", h.GetRosterApprovals)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RolePlanner})).With(h.myInfo).Post("/approvals", h.SubmitRosterApproval)
				r.With(h.RequiredRole([]domain.Role{domain.RolePlanner})).With(h.myInfo).Post("/generate", h.GenerateRoster)
			})
		})

		r.Route("/timesheet", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/calculate", h.CalculateTimeEntry)
			r.Post("/entries", h.SaveTimeEntry)
			r.Delete("/entries", h.DeleteTimeEntry)
			r.Get("/entries", h.GetTimeEntries)
			r.Get("/summary", h.GetFlexSummaries)
		})
	})
}
