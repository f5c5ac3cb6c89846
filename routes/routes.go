package routes

import (
	"net/http"
	"time"

	"it_inventory/app"
	"it_inventory/controllers"
	"it_inventory/models"

	"github.com/gin-gonic/gin"
)

const lastSeenThrottle = 5 * time.Minute

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	userCtl := controllers.NewUserController(s)
	invCtl := controllers.NewInventoryController(s)
	borrowCtl := controllers.NewBorrowController(s)
	dispCtl := controllers.NewDisposalController(s)
	reportCtl := controllers.NewReportController(s)
	deptCtl := controllers.NewDepartmentController(s)

	// Shared middleware
	authMW := app.AuthRequired(a.Tokens, a.Sessions, a.Repo)
	seenMW := app.TouchLastSeen(a.Repo, a.RDB, lastSeenThrottle)
	adminMW := app.RequireRoles(models.RoleAdmin)
	staffMW := app.RequireRoles(models.RoleAdmin, models.RoleManager)

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))

	api := r.Group("/api")

	// Auth
	api.POST("/auth/login", authCtl.Login)
	me := api.Group("/auth", authMW, seenMW)
	{
		me.POST("/logout", authCtl.Logout)
		me.GET("/profile", authCtl.Profile)
		me.PUT("/profile", authCtl.UpdateProfile)
		me.PUT("/change-password", authCtl.ChangePassword)
		me.POST("/register", adminMW, userCtl.CreateUser)
	}

	// User management (admin only)
	users := api.Group("/users", authMW, seenMW, adminMW)
	{
		users.GET("", userCtl.ListUsers) // ?q=&page=&size=
		users.POST("", userCtl.CreateUser)
		users.GET("/:id", userCtl.GetUser)
		users.PUT("/:id", userCtl.UpdateUser)
		users.DELETE("/:id", userCtl.DeleteUser)
	}

	// Inventory
	inv := api.Group("/inventory", authMW, seenMW)
	{
		inv.GET("", invCtl.List)
		inv.GET("/departments", invCtl.Departments)
		inv.GET("/statistics", invCtl.Statistics)
		inv.GET("/:id", invCtl.Get)
		inv.POST("", staffMW, invCtl.Create)
		inv.PUT("/:id", staffMW, invCtl.Update)
		inv.DELETE("/:id", staffMW, invCtl.Delete)
		inv.POST("/bulk-import", adminMW, invCtl.BulkImport)
	}

	// Borrow / return
	borrow := api.Group("/borrow", authMW, seenMW)
	{
		borrow.GET("", borrowCtl.List)
		borrow.GET("/overdue", borrowCtl.Overdue)
		borrow.GET("/upcoming-returns", borrowCtl.Upcoming)
		borrow.GET("/upcoming", borrowCtl.Upcoming)
		borrow.GET("/statistics", borrowCtl.Statistics)
		borrow.GET("/:id", borrowCtl.Get)
		borrow.POST("", staffMW, borrowCtl.Create)
		borrow.PUT("/:id/return", staffMW, borrowCtl.Return)
		borrow.PUT("/:id/extend", staffMW, borrowCtl.Extend)
		borrow.POST("/send-reminders", adminMW, borrowCtl.SendReminders)
		borrow.POST("/sweep-overdue", adminMW, borrowCtl.Sweep)
		borrow.DELETE("/:id", adminMW, borrowCtl.Delete)
	}

	// Disposal
	disp := api.Group("/disposal", authMW, seenMW)
	{
		disp.GET("", dispCtl.List)
		disp.GET("/available-items", dispCtl.AvailableItems)
		disp.GET("/statistics", staffMW, dispCtl.Statistics)
		disp.GET("/:id", dispCtl.Get)
		disp.POST("", staffMW, dispCtl.Create)
		disp.PUT("/:id", staffMW, dispCtl.Update)
		disp.PUT("/:id/approve", adminMW, dispCtl.Approve)
		disp.PUT("/:id/complete", staffMW, dispCtl.Complete)
		disp.PUT("/:id/cancel", adminMW, dispCtl.Cancel)
		// POST forms used by older clients.
		disp.POST("/:id/approve", adminMW, dispCtl.Approve)
		disp.POST("/:id/complete", staffMW, dispCtl.Complete)
		disp.POST("/:id/cancel", adminMW, dispCtl.Cancel)
		disp.DELETE("/:id", adminMW, dispCtl.Delete)
	}

	// Reports
	reports := api.Group("/reports", authMW, seenMW)
	{
		reports.GET("/dashboard", reportCtl.Dashboard)
		staff := reports.Group("", staffMW)
		staff.GET("/inventory", reportCtl.Inventory)
		staff.GET("/borrow", reportCtl.Borrow)
		staff.GET("/disposal", reportCtl.Disposal)
		staff.GET("/departments", reportCtl.Departments)
		staff.GET("/department", reportCtl.Departments)
		staff.GET("/activity", reportCtl.Activity)
		staff.GET("/exports", reportCtl.ListExports)
		staff.GET("/exports/*key", reportCtl.DownloadExport)
	}

	// Departments
	depts := api.Group("/departments", authMW, seenMW)
	{
		depts.GET("", deptCtl.List)
		depts.GET("/:id", deptCtl.Get)
		depts.POST("", adminMW, deptCtl.Create)
		depts.PUT("/:id", adminMW, deptCtl.Update)
		depts.DELETE("/:id", adminMW, deptCtl.Delete)
	}
}
