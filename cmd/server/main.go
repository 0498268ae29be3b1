package main

import (
	"context"
	"log"

	"flytau/config"
	"flytau/internal/cache"
	"flytau/internal/database"
	"flytau/internal/handler"
	"flytau/internal/queue"
	"flytau/internal/repository"
	"flytau/internal/service"
	"flytau/internal/worker"
	"flytau/pkg/clock"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// Repositories
	flightRepo := repository.NewFlightRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	crewRepo := repository.NewCrewRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	// Redis 周邊：選位暫留、可售數快取、訂單事件流
	holdManager := cache.NewRedisSeatHoldManager(rdb)
	availability := cache.NewRedisAvailabilityCache(rdb)
	eventQueue, err := queue.NewRedisStreamEventQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize event queue: %v", err)
	}

	now := clock.System()

	// Services
	inventoryService := service.NewInventoryService(seatRepo, flightRepo, holdManager, availability, cfg.Booking, now)
	orderService := service.NewOrderService(pool, orderRepo, flightRepo, inventoryService, holdManager, eventQueue, now)
	flightService := service.NewFlightService(pool, flightRepo, seatRepo, orderRepo, crewRepo, inventoryService, availability, eventQueue, cfg.Booking, now)
	crewService := service.NewCrewService(crewRepo, flightRepo, now)
	reportService := service.NewReportService(reportRepo)

	// Worker：消費訂單事件，刷新可售座位快取
	availabilityWorker := worker.NewAvailabilityWorker(inventoryService, eventQueue)
	if err := availabilityWorker.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start availability worker: %v", err)
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewFlightHandler(flightService, inventoryService).RegisterRoutes(router)
	handler.NewOrderHandler(orderService).RegisterRoutes(router)
	handler.NewCrewHandler(crewService).RegisterRoutes(router)
	handler.NewReportHandler(reportService).RegisterRoutes(router)

	router.Run(":" + cfg.Server.Port)
}
