package routes

import (
	"blogicum/config"
	"blogicum/controllers"
	"blogicum/middleware"
	"blogicum/services"
	"blogicum/templates"
	"blogicum/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRouter wires middleware, templates and controllers into a ready engine.
func NewRouter(db *gorm.DB, cfg *config.Config, log *zap.Logger) (*gin.Engine, error) {
	renderer, err := templates.New()
	if err != nil {
		return nil, err
	}

	jwt := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	metrics := middleware.NewMetrics()
	pages := controllers.NewPagesController()

	r := gin.New()
	r.HTMLRender = renderer
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log, pages.ServerError))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.CurrentUser(jwt, services.NewUserService(db)))
	r.Use(middleware.BodyLimit(bodyLimit(cfg), pages.RequestTooLarge))
	r.Use(middleware.CSRF(cfg.SecureCookies, pages.Forbidden))

	SetupRoutes(r, Controllers{
		Blog:    controllers.NewBlogController(db, cfg, log),
		Post:    controllers.NewPostController(db, cfg, log),
		Comment: controllers.NewCommentController(db, log),
		Profile: controllers.NewProfileController(db, cfg, log),
		Auth:    controllers.NewAuthController(db, cfg, jwt, log),
		Pages:   pages,
		Admin:   controllers.NewAdminController(db, cfg, log),
		User:    controllers.NewUserController(db, log),
	}, metrics, cfg.MediaRoot)

	return r, nil
}

// bodyLimit allows one upload of MAX_UPLOAD_MB plus a megabyte for the other
// form fields. It has to run before CSRF, which reads the form.
func bodyLimit(cfg *config.Config) int64 {
	if cfg.MaxUploadMB <= 0 {
		return 0
	}
	return (cfg.MaxUploadMB + 1) << 20
}
