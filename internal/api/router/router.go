package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resource-pulse/config"
	"resource-pulse/internal/api/handler"
	"resource-pulse/internal/api/middleware"
	"resource-pulse/pkg/jwt"
	"resource-pulse/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(8 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口单独限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/change-password", h.Auth.ChangePassword)

			// 员工模块
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.ListEmployees)
				employees.GET("/:id", h.Employee.GetEmployee)
				employees.POST("", middleware.RoleAuth("admin", "manager"), h.Employee.CreateEmployee)
				employees.PUT("/:id", middleware.RoleAuth("admin", "manager"), h.Employee.UpdateEmployee)
				employees.DELETE("/:id", middleware.RoleAuth("admin"), h.Employee.DeleteEmployee)
				employees.PUT("/:id/skills", middleware.RoleAuth("admin", "manager"), h.Employee.SetSkills)
				employees.POST("/import", middleware.RoleAuth("admin"), h.Employee.ImportEmployees)
			}

			// 部门模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", middleware.RoleAuth("admin"), h.Department.CreateDepartment)
				departments.PUT("/:id", middleware.RoleAuth("admin"), h.Department.UpdateDepartment)
				departments.DELETE("/:id", middleware.RoleAuth("admin"), h.Department.DeleteDepartment)
			}

			// 技能模块
			skills := authorized.Group("/skills")
			{
				skills.GET("", h.Skill.ListSkills)
				skills.GET("/:id", h.Skill.GetSkill)
				skills.POST("", middleware.RoleAuth("admin", "manager"), h.Skill.CreateSkill)
				skills.PUT("/:id", middleware.RoleAuth("admin", "manager"), h.Skill.UpdateSkill)
				skills.DELETE("/:id", middleware.RoleAuth("admin"), h.Skill.DeleteSkill)
			}

			// 项目模块
			projects := authorized.Group("/projects")
			{
				projects.GET("", h.Project.ListProjects)
				projects.GET("/:id", h.Project.GetProject)
				projects.POST("", middleware.RoleAuth("admin", "manager"), h.Project.CreateProject)
				projects.PUT("/:id", middleware.RoleAuth("admin", "manager"), h.Project.UpdateProject)
				projects.DELETE("/:id", middleware.RoleAuth("admin"), h.Project.DeleteProject)
			}

			// 分配与冲突检测模块
			allocations := authorized.Group("/allocations")
			{
				allocations.GET("", h.Allocation.ListAllocations)
				allocations.GET("/conflicts", h.Allocation.ListConflicts)
				allocations.POST("/check", h.Allocation.CheckAllocation)
				allocations.GET("/:id", h.Allocation.GetAllocation)
				allocations.POST("", middleware.RoleAuth("admin", "manager"), h.Allocation.CreateAllocation)
				allocations.PUT("/:id", middleware.RoleAuth("admin", "manager"), h.Allocation.UpdateAllocation)
				allocations.DELETE("/:id", middleware.RoleAuth("admin", "manager"), h.Allocation.CancelAllocation)
			}

			// 容量热力图模块
			capacity := authorized.Group("/capacity")
			{
				capacity.GET("/heatmap", h.Capacity.GetHeatmap)
			}

			// 仪表盘模块
			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/summary", h.Dashboard.Summary)
				dashboard.GET("/utilization", middleware.RoleAuth("admin", "manager"), h.Dashboard.DepartmentUtilization)
				dashboard.GET("/project-hours", h.Dashboard.ProjectHours)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.GET("/preferences", h.Notification.GetPreference)
				notifications.PUT("/preferences", h.Notification.UpdatePreference)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/allocations", middleware.RoleAuth("admin", "manager"), h.Export.ExportAllocations)
				export.GET("/utilization", middleware.RoleAuth("admin", "manager"), h.Export.ExportUtilization)
				export.GET("/employees/:id/calendar.ics", h.Export.EmployeeCalendar)
			}
		}
	}

	return r
}
