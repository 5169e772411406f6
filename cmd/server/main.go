package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/problog/problog/server"
	"github.com/problog/problog/server/auth"
	"github.com/problog/problog/server/file_store"
	"github.com/problog/problog/server/handlers"
	"github.com/problog/problog/server/middlewares"
	"github.com/problog/problog/utils"
	"github.com/problog/problog/utils/dotenv"
	. "github.com/problog/problog/utils/flag"
	. "github.com/problog/problog/utils/log"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	Log.Info("api server shutdown")
}

func main() {
	defer cleanup()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	// Middlewares. Must happen after env loading since the session secret
	// comes from the environment.
	middlewares.Setup()

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to DB: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	var fileStore file_store.UploadFileStore
	if s3Store, err := file_store.NewS3FileStore(); err != nil {
		Log.Warn("uploads disabled: ", err)
	} else {
		fileStore = s3Store
	}

	var redis *utils.RedisClient
	if os.Getenv("REDIS_HOST") != "" {
		redis = utils.GetRedisClient()
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(gintrace.Middleware(ServiceName))

	server.RegisterRoutes(router, handlers.New(db, fileStore, redis), auth.NewHandler(db))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	Log.Info("api server starts up")
	router.Run(":8080")
}
