package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"gopts/internal/config"
	"gopts/internal/database"
	"gopts/internal/events"
	"gopts/internal/handlers"
	"gopts/internal/imghost"
	"gopts/internal/middleware"
	"gopts/internal/models"
	"gopts/internal/payments"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Println("user index warning:", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Println("product index warning:", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Println("order index warning:", err)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if config.AppEnv.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(config.AppEnv.AMQPURL, config.AppEnv.OrderEventsQueue)
		if err != nil {
			log.Println("AMQP unavailable, order events disabled:", err)
		} else {
			publisher = amqpPublisher
			defer amqpPublisher.Close()
			log.Println("order events queue ready:", config.AppEnv.OrderEventsQueue)
		}
	}

	gateway := payments.NewGateway(
		config.AppEnv.CheckoutAPIBase,
		config.AppEnv.CheckoutAPIKey,
		config.AppEnv.CheckoutSuccessURL,
		config.AppEnv.CheckoutCancelURL,
	)
	imageHost := imghost.NewClient(config.AppEnv.ImgBBEndpoint, config.AppEnv.ImgBBKey)

	secret := config.AppEnv.JWTSecret

	r := gin.Default()

	api := r.Group("/api")

	// public catalog and tracking
	api.GET("/products", handlers.GetProducts(db))
	api.GET("/products/:id", handlers.GetProduct(db))
	api.GET("/orders/public/track/:trackingId", handlers.TrackOrder(db))

	// any authenticated identity: provisioning and the post-login probe
	authed := api.Group("")
	authed.Use(middleware.Auth(secret))
	{
		authed.POST("/users", handlers.CreateUser(db))
		authed.GET("/users/:id", handlers.GetUser(db))
		authed.GET("/users/:id/role", handlers.GetUserRole(db))
	}

	// registered users of any role
	registered := api.Group("")
	registered.Use(middleware.Auth(secret), middleware.RoleGuard(db))
	{
		registered.GET("/users/me/status", handlers.GetMyStatus(db))
		registered.POST("/orders", handlers.CreateOrder(db, publisher))
		registered.GET("/orders/user/:uid", handlers.GetUserOrders(db))
		registered.DELETE("/orders/:id", handlers.CancelOrder(db, publisher))
		registered.POST("/payments/create-session", handlers.CreatePaymentSession(db, gateway))
		registered.PATCH("/payments/payment-success", handlers.PaymentSuccess(db, gateway, publisher))
		registered.POST("/uploads/image", handlers.UploadImage(imageHost))
	}

	// managers (admins pass every manager gate)
	manager := api.Group("")
	manager.Use(middleware.Auth(secret), middleware.RoleGuard(db, models.RoleManager, models.RoleAdmin))
	{
		manager.POST("/products", handlers.CreateProduct(db))
		manager.GET("/products/manager/my-products", handlers.GetMyProducts(db))
		manager.GET("/products/manager/:id", handlers.GetProduct(db))
		manager.PATCH("/products/manager/:id", handlers.UpdateManagerProduct(db))
		manager.DELETE("/products/manager/:id", handlers.DeleteManagerProduct(db))

		manager.GET("/orders/manager/pending", handlers.GetManagerOrders(db, models.OrderPending))
		manager.GET("/orders/manager/approved", handlers.GetManagerOrders(db, models.OrderApproved))
		manager.GET("/orders/manager/order-details/:id", handlers.GetManagerOrderDetails(db))
		manager.PATCH("/orders/manager/:id/approve", handlers.ApproveOrder(db, publisher))
		manager.PATCH("/orders/manager/:id/reject", handlers.RejectOrder(db, publisher))
		manager.POST("/orders/manager/:id/tracking", handlers.AddTracking(db, publisher))
	}

	// admin only
	admin := api.Group("")
	admin.Use(middleware.Auth(secret), middleware.RoleGuard(db, models.RoleAdmin))
	{
		admin.GET("/users", handlers.GetUsers(db))
		admin.PATCH("/users/:id/role", handlers.UpdateUserRole(db))
		admin.PATCH("/users/:id/status", handlers.UpdateUserStatus(db))

		admin.GET("/orders", handlers.GetOrders(db))
		admin.GET("/orders/:id", handlers.GetOrder(db))

		admin.PATCH("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))
		admin.PATCH("/products/:id/show-on-home", handlers.ToggleShowOnHome(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
