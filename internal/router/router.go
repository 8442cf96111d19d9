package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tidalshare_v1_202608/internal/controller"
	"tidalshare_v1_202608/internal/middleware"
	"tidalshare_v1_202608/internal/model"
)

// Controllers 路由依赖的全部控制器
type Controllers struct {
	Auth    *controller.AuthController
	Product *controller.ProductController
	Order   *controller.OrderController
	Account *controller.AccountController
	Content *controller.ContentController
	Member  *controller.MemberController
	Setting *controller.SettingController
}

// SetupRouter 创建引擎并注册全部路由
func SetupRouter(c *Controllers) *gin.Engine {
	r := gin.Default()
	InitRoutes(r, c)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, c *Controllers) {
	// Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// ==================== 店面公开接口 ====================

		products := api.Group("/products")
		{
			products.GET("", c.Product.ListPublic)
			products.GET("/:slug", c.Product.GetBySlug)
		}

		orders := api.Group("/orders")
		{
			// 下单加来源限流，防止重复提交
			orders.POST("", middleware.ThrottleSubmit("checkout", 10*time.Second), c.Order.Checkout)
			orders.GET("/:orderNumber", c.Order.GetByOrderNumber)
		}

		api.GET("/notices", c.Content.ListNoticesPublic)
		api.GET("/notices/:id", c.Content.GetNotice)
		api.GET("/faqs", c.Content.ListFAQsPublic)
		api.POST("/qna", middleware.ThrottleSubmit("qna", 30*time.Second), c.Content.CreateQna)
		api.GET("/settings/bank-accounts", c.Setting.ListBankAccountsPublic)

		// ==================== 后台认证 ====================

		auth := api.Group("/auth")
		{
			auth.POST("/login", c.Auth.Login)
			auth.POST("/refresh", c.Auth.RefreshToken)
			auth.POST("/password-reset", middleware.ThrottleSubmit("password-reset", 30*time.Second), c.Auth.RequestPasswordReset)
			auth.POST("/password-reset/confirm", c.Auth.ConfirmPasswordReset)
			auth.GET("/profile", middleware.JWTAuth(), c.Auth.GetProfile)
			auth.POST("/change-password", middleware.JWTAuth(), c.Auth.ChangePassword)
		}

		// ==================== 后台管理接口 ====================

		admin := api.Group("/admin", middleware.JWTAuth())
		{
			// 商品 / 套餐
			admin.GET("/products", c.Product.List)
			admin.POST("/products", c.Product.Create)
			admin.GET("/products/:id", c.Product.GetByID)
			admin.PUT("/products/:id", c.Product.Update)
			admin.DELETE("/products/:id", c.Product.Delete)
			admin.POST("/products/:id/plans", c.Product.CreatePlan)
			admin.PUT("/plans/:id", c.Product.UpdatePlan)
			admin.DELETE("/plans/:id", c.Product.DeletePlan)

			// 订单
			admin.GET("/orders", c.Order.List)
			admin.GET("/orders/stats", c.Order.GetStats)
			admin.GET("/orders/:id", c.Order.GetByID)
			admin.PUT("/orders/:id/payment-status", c.Order.UpdatePaymentStatus)
			admin.PUT("/orders/:id/memo", c.Order.UpdateMemo)

			// 共享账号与槽位
			admin.GET("/accounts", c.Account.List)
			admin.POST("/accounts", c.Account.Create)
			admin.POST("/accounts/move", c.Account.MoveSlot)
			admin.GET("/accounts/:id", c.Account.GetByID)
			admin.PUT("/accounts/:id", c.Account.Update)
			admin.DELETE("/accounts/:id", c.Account.Delete)
			admin.POST("/accounts/:id/assign", c.Account.AssignSlot)
			admin.DELETE("/assignments/:id", c.Account.Unassign)
			admin.POST("/assignments/notify", c.Account.NotifyExpiry)

			// 会员
			admin.GET("/members", c.Member.List)
			admin.POST("/members", c.Member.Create)
			admin.GET("/members/:id", c.Member.GetByID)
			admin.PUT("/members/:id", c.Member.Update)
			admin.DELETE("/members/:id", c.Member.Delete)
			admin.GET("/members/:id/orders", c.Member.ListOrders)

			// 公告 / FAQ / 咨询
			admin.GET("/notices", c.Content.ListNotices)
			admin.POST("/notices", c.Content.CreateNotice)
			admin.PUT("/notices/:id", c.Content.UpdateNotice)
			admin.DELETE("/notices/:id", c.Content.DeleteNotice)
			admin.GET("/faqs", c.Content.ListFAQs)
			admin.POST("/faqs", c.Content.CreateFAQ)
			admin.PUT("/faqs/:id", c.Content.UpdateFAQ)
			admin.DELETE("/faqs/:id", c.Content.DeleteFAQ)
			admin.GET("/qna", c.Content.ListQna)
			admin.GET("/qna/:id", c.Content.GetQna)
			admin.POST("/qna/:id/answer", c.Content.AnswerQna)
			admin.DELETE("/qna/:id", c.Content.DeleteQna)

			// 站点设置（仅管理员角色）
			settings := admin.Group("/settings", middleware.RequireRole(model.UserRoleAdmin))
			{
				settings.GET("", c.Setting.GetAll)
				settings.PUT("", c.Setting.Update)
				settings.GET("/bank-accounts", c.Setting.ListBankAccounts)
				settings.POST("/bank-accounts", c.Setting.CreateBankAccount)
				settings.PUT("/bank-accounts/:id", c.Setting.UpdateBankAccount)
				settings.DELETE("/bank-accounts/:id", c.Setting.DeleteBankAccount)
			}
		}
	}
}
