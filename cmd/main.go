package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tidalshare_v1_202608/internal/config"
	"tidalshare_v1_202608/internal/controller"
	"tidalshare_v1_202608/internal/middleware"
	"tidalshare_v1_202608/internal/model"
	"tidalshare_v1_202608/internal/repository"
	"tidalshare_v1_202608/internal/router"
	"tidalshare_v1_202608/internal/service"
	"tidalshare_v1_202608/internal/task"
	"tidalshare_v1_202608/pkg/database"
)

func main() {
	// 1. 读取配置
	cfg := config.Load()

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 启动定时任务
	initTasks(cfg, deps)

	// 5. 初始化路由并启动服务
	r := router.SetupRouter(deps.Controllers)
	startServer(cfg, r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Product       repository.ProductRepository
	Plan          repository.PlanRepository
	Order         repository.OrderRepository
	Account       repository.AccountRepository
	Assignment    repository.AssignmentRepository
	AssignmentUow *repository.AssignmentUnitOfWork
	Profile       repository.ProfileRepository
	Notice        repository.NoticeRepository
	FAQ           repository.FAQRepository
	Qna           repository.QnaRepository
	Setting       repository.SettingRepository
	BankAccount   repository.BankAccountRepository
	User          repository.UserRepository
}

// Services 服务集合
type Services struct {
	Mail       *service.MailService
	Product    *service.ProductService
	Order      *service.OrderService
	Account    *service.AccountService
	Assignment *service.AssignmentService
	Member     *service.MemberService
	Content    *service.ContentService
	Setting    *service.SettingService
	User       *service.UserService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.DB.DSN,
		// 后台账号
		&model.SysUser{},
		// 商品
		&model.Product{}, &model.ProductPlan{},
		// 会员与订单
		&model.Profile{}, &model.Order{},
		// 共享账号与槽位
		&model.Account{}, &model.OrderAccount{},
		// 内容
		&model.Notice{}, &model.FAQ{}, &model.Qna{},
		// 设置
		&model.SiteSetting{}, &model.BankAccount{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- JWT 配置 --------
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
		Issuer:          "tidalshare",
	})

	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 邮件服务 --------
	mailSvc := service.NewMailService(&service.MailConfig{
		BaseURL: cfg.Mail.BaseURL,
		APIKey:  cfg.Mail.APIKey,
		Sender:  cfg.Mail.Sender,
		SiteURL: cfg.Server.SiteURL,
	})
	// 站点设置里保存过发件人时覆盖配置值
	if sender, err := repos.Setting.Get(context.Background(), model.SettingKeySenderEmail); err == nil {
		mailSvc.SetSender(sender)
	}

	// -------- 业务服务 --------
	services := &Services{Mail: mailSvc}
	services.Product = service.NewProductService(repos.Product, repos.Plan)
	services.Order = service.NewOrderService(repos.Order, repos.Product, repos.Plan, repos.Profile, mailSvc)
	services.Account = service.NewAccountService(repos.Account, repos.Assignment)
	services.Assignment = service.NewAssignmentService(repos.AssignmentUow, mailSvc)
	services.Member = service.NewMemberService(repos.Profile, repos.Order)
	services.Content = service.NewContentService(repos.Notice, repos.FAQ, repos.Qna, mailSvc)
	services.Setting = service.NewSettingService(repos.Setting, repos.BankAccount, mailSvc)
	services.User = service.NewUserService(repos.User, mailSvc)

	// 默认管理员
	if err := services.User.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Printf("警告: 默认管理员创建失败: %v", err)
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: initControllers(services),
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:       repository.NewProductRepository(db),
		Plan:          repository.NewPlanRepository(db),
		Order:         repository.NewOrderRepository(db),
		Account:       repository.NewAccountRepository(db),
		Assignment:    repository.NewAssignmentRepository(db),
		AssignmentUow: repository.NewAssignmentUnitOfWork(db),
		Profile:       repository.NewProfileRepository(db),
		Notice:        repository.NewNoticeRepository(db),
		FAQ:           repository.NewFAQRepository(db),
		Qna:           repository.NewQnaRepository(db),
		Setting:       repository.NewSettingRepository(db),
		BankAccount:   repository.NewBankAccountRepository(db),
		User:          repository.NewUserRepository(db),
	}
}

// initControllers 初始化所有控制器
func initControllers(svc *Services) *router.Controllers {
	return &router.Controllers{
		Auth:    controller.NewAuthController(svc.User),
		Product: controller.NewProductController(svc.Product),
		Order:   controller.NewOrderController(svc.Order),
		Account: controller.NewAccountController(svc.Account, svc.Assignment),
		Content: controller.NewContentController(svc.Content),
		Member:  controller.NewMemberController(svc.Member),
		Setting: controller.NewSettingController(svc.Setting),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(cfg *config.Config, deps *Dependencies) {
	if !cfg.Cron.Enabled {
		log.Println("定时任务已禁用")
		return
	}

	expiryTask := task.NewExpirySweepTask(deps.Services.Assignment)
	expiryTask.SetSchedule(cfg.Cron.ExpirySchedule)
	expiryTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(cfg *config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
