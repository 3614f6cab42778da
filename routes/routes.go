package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/leanttro/leanttrotech/controllers"
	"github.com/leanttro/leanttrotech/middleware"
	"github.com/leanttro/leanttrotech/session"
)

// RegisterRoutes mounts the storefront and the admin panel under basePath.
// loginLimit may be nil.
func RegisterRoutes(r *gin.Engine, basePath string, store *controllers.StorefrontController, admin *controllers.AdminController, sessions *session.Manager, loginLimit gin.HandlerFunc) {
	root := r.Group(basePath)
	{
		root.GET("/", store.Index)
		root.GET("/produto/:slug", store.Product)
		root.GET("/case/:slug", store.Case)
		root.GET("/health", store.Health)
	}

	login := r.Group(basePath+"/admin", sessions.Middleware(), middleware.NoStore())
	{
		login.GET("/login", admin.LoginPage)
		if loginLimit != nil {
			login.POST("/login", loginLimit, admin.Handle(admin.Login))
		} else {
			login.POST("/login", admin.Handle(admin.Login))
		}
	}

	// Every method of the panel and the write routes passes the gate.
	protected := r.Group(basePath+"/admin", sessions.Middleware(), middleware.NoStore(), middleware.RequireAdmin(admin.LoginPath()))
	{
		protected.GET("", admin.Panel)
		protected.POST("/loja", admin.Handle(admin.SaveStore))
		protected.POST("/categoria", admin.Handle(admin.SaveCategory))
		protected.POST("/produto", admin.Handle(admin.SaveProduct))
		protected.POST("/post", admin.Handle(admin.SavePost))
		protected.POST("/excluir/:tipo/:id", admin.Handle(admin.Delete))
		protected.GET("/logout", admin.Handle(admin.Logout))
		protected.POST("/logout", admin.Handle(admin.Logout))
	}
}
