package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"estatehub/api/internal/config"
	"estatehub/api/internal/mailer"
	"estatehub/api/internal/middleware"
	"estatehub/api/internal/models"
	"estatehub/api/internal/repository"
	"estatehub/api/internal/service"
	"estatehub/api/internal/storage"
)

type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	Find(ctx context.Context, filter bson.M) ([]models.User, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, updates bson.M) (models.User, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type PropertyStore interface {
	Create(ctx context.Context, property models.Property) (models.Property, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Property, error)
	Find(ctx context.Context, filter bson.M) ([]models.Property, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, updates bson.M) (models.Property, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	Search(ctx context.Context, search repository.PropertySearch) ([]models.Property, error)
}

type BlogStore interface {
	Create(ctx context.Context, blog models.Blog) (models.Blog, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Blog, error)
	Find(ctx context.Context, filter bson.M) ([]models.Blog, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, updates bson.M) (models.Blog, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
}

type RequestStore interface {
	Create(ctx context.Context, request models.UserRequest) (models.UserRequest, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.UserRequest, error)
	FindAll(ctx context.Context) ([]models.UserRequest, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	uploads     *service.UploadService
	users       UserStore
	properties  PropertyStore
	blogs       BlogStore
	requests    RequestStore
	db          *mongo.Database
	cache       *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *mongo.Database, cache *redis.Client, store *storage.ObjectStore, mail mailer.Mailer, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	auth := service.NewAuthService(userRepo, mail, cfg, log)
	uploads := service.NewUploadService(store, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: auth,
		uploads:     uploads,
		users:       userRepo,
		properties:  propertyRepo,
		blogs:       blogRepo,
		requests:    requestRepo,
		db:          db,
		cache:       cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	if h.cache != nil {
		v1.Use(middleware.RateLimit(h.cache, h.cfg.RateLimit))
	}

	protect := middleware.Protect(h.cfg, h.users)
	soft := middleware.SoftAuth(h.cfg, h.users)

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.GET("/logout", protect, h.Logout)
		auth.POST("/forgotPassword", h.ForgotPassword)
		auth.PATCH("/resetPassword/:token", h.ResetPassword)
		auth.PATCH("/updateMyPassword", protect, h.UpdateMyPassword)
		auth.GET("/google", h.GoogleLogin)
	}

	property := v1.Group("/property")
	{
		property.GET("", h.ListProperties)
		property.POST("", h.CreateProperty)
		property.GET("/search", h.SearchProperties)
		property.GET("/:id", h.GetProperty)
		property.PATCH("/:id", h.UpdateProperty)
		property.DELETE("/:id", h.DeleteProperty)
	}

	user := v1.Group("/user")
	{
		user.GET("/me", protect, h.GetMe)
		user.PATCH("/me", protect, h.UpdateMe)
		user.DELETE("/me", protect, h.DeleteMe)

		admin := middleware.RestrictTo(models.UserRoleAdmin)
		user.GET("", protect, admin, h.ListUsers)
		user.GET("/:id", protect, admin, h.GetUser)
		user.PATCH("/:id", protect, admin, h.UpdateUser)
		user.DELETE("/:id", protect, admin, h.DeleteUser)
	}

	blog := v1.Group("/blog")
	{
		editors := middleware.RestrictTo(models.UserRoleAdmin, models.UserRoleEditor)
		blog.GET("", soft, h.ListBlogs)
		blog.POST("", protect, editors, h.CreateBlog)
		blog.GET("/:id", soft, h.GetBlog)
		blog.PATCH("/:id", protect, editors, h.UpdateBlog)
		blog.DELETE("/:id", protect, editors, h.DeleteBlog)
	}

	userRequest := v1.Group("/userRequest")
	{
		support := middleware.RestrictTo(models.UserRoleAdmin, models.UserRoleSupport)
		userRequest.GET("", soft, h.ListUserRequests)
		userRequest.POST("", protect, support, h.CreateUserRequest)
		userRequest.GET("/:id", soft, h.GetUserRequest)
		userRequest.DELETE("/:id", protect, support, h.DeleteUserRequest)
	}
}
