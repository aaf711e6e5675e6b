package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/battletechbands/backend/config"
	"github.com/battletechbands/backend/database"
	"github.com/battletechbands/backend/handlers"
	"github.com/battletechbands/backend/media"
	"github.com/battletechbands/backend/realtime"
	"github.com/battletechbands/backend/repository"
	"github.com/battletechbands/backend/scoring"
	"github.com/battletechbands/backend/social"
	"github.com/battletechbands/backend/workers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.OriginalsPath, cfg.ThumbnailsPath, cfg.WebPath}
	for _, p := range storagePaths {
		if err := os.MkdirAll(p, 0755); err != nil {
			logrus.Fatalf("failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		logrus.Fatalf("failed to migrate database schema: %v", err)
	}

	mediaSubDirs := map[media.AssetType]string{
		media.AssetTypeOriginal:  filepath.Base(cfg.OriginalsPath),
		media.AssetTypeThumbnail: filepath.Base(cfg.ThumbnailsPath),
		media.AssetTypeWeb:       filepath.Base(cfg.WebPath),
	}
	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, mediaSubDirs)
	if err != nil {
		logrus.Fatalf("failed to initialize media store: %v", err)
	}
	mediaProcessor := media.NewProcessor(mediaStore)

	// repositories
	eventRepo := repository.NewEventRepository(db)
	bandRepo := repository.NewBandRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	photographerRepo := repository.NewPhotographerRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	resultRepo := repository.NewResultRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	setlistRepo := repository.NewSetlistRepository(db)
	socialRepo := repository.NewSocialRepository(db)
	userRepo := repository.NewUserRepository(db)
	inviteCodeRepo := repository.NewInviteCodeRepository(db)

	hub := realtime.NewHub()
	go hub.Run()

	logrus.Infof("initializing photo processor worker pool (workers: %d, queue size: %d)", cfg.NumPhotoWorkers, cfg.PhotoQueueSize)
	photoProcessor := workers.NewPhotoProcessor(cfg, photoRepo, mediaStore, mediaProcessor, hub, cfg.PhotoQueueSize, cfg.NumPhotoWorkers)
	defer photoProcessor.Stop()

	socialService := social.NewService(socialRepo, social.NewHTTPPoster())
	finalizer := scoring.NewFinalizer(db)

	// handlers
	authHandler := handlers.NewAuthHandler(userRepo, inviteCodeRepo, cfg.JWTSecret)
	inviteCodeHandler := handlers.NewInviteCodeHandler(inviteCodeRepo)
	eventHandler := handlers.NewEventHandler(eventRepo)
	bandHandler := handlers.NewBandHandler(bandRepo, eventRepo)
	companyHandler := handlers.NewCompanyHandler(companyRepo)
	photographerHandler := handlers.NewPhotographerHandler(photographerRepo)
	voteHandler := handlers.NewVoteHandler(voteRepo, eventRepo, bandRepo, hub)
	resultHandler := handlers.NewResultHandler(resultRepo, eventRepo, voteRepo, finalizer, hub)
	photoHandler := handlers.NewPhotoHandler(photoRepo, eventRepo, bandRepo, photographerRepo, mediaStore, photoProcessor, cfg)
	videoHandler := handlers.NewVideoHandler(videoRepo, eventRepo, bandRepo)
	setlistHandler := handlers.NewSetlistHandler(setlistRepo, bandRepo)
	socialHandler := handlers.NewSocialHandler(socialRepo, eventRepo, resultRepo, socialService)

	authMW := handlers.AuthMiddleware(userRepo, []byte(cfg.JWTSecret))

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)
		r.With(authMW).Get("/auth/me", authHandler.Me)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.With(authMW, handlers.RequireAdmin).Post("/", eventHandler.CreateEvent)

			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", eventHandler.GetEvent)
				r.Group(func(r chi.Router) {
					r.Use(authMW, handlers.RequireAdmin)
					r.Put("/", eventHandler.UpdateEvent)
					r.Put("/status", eventHandler.UpdateEventStatus)
					r.Delete("/", eventHandler.DeleteEvent)
					r.Post("/bands", bandHandler.CreateBand)
					r.Post("/videos", videoHandler.CreateVideo)
					r.Post("/crowd-noise", voteHandler.SubmitCrowdNoise)
					r.Post("/finalize", resultHandler.FinalizeEvent)
					r.Post("/announce", socialHandler.AnnounceResults)
				})

				r.Get("/bands", bandHandler.ListBands)
				r.Get("/videos", videoHandler.ListVideos)
				r.Get("/crowd-noise", voteHandler.ListCrowdNoise)
				r.Get("/results", resultHandler.ListResults)

				r.Post("/votes", voteHandler.CastVote)
				r.Get("/votes", voteHandler.GetTallies)

				r.Group(func(r chi.Router) {
					r.Use(authMW, handlers.RequireJudge)
					r.Post("/judge-scores", voteHandler.SubmitJudgeScore)
					r.Get("/judge-scores/mine", voteHandler.GetMyBallot)
				})
			})
		})

		r.Route("/bands/{bandID}", func(r chi.Router) {
			r.Get("/", bandHandler.GetBand)
			r.Get("/setlist", setlistHandler.ListSongs)
			r.Group(func(r chi.Router) {
				r.Use(authMW, handlers.RequireAdmin)
				r.Put("/", bandHandler.UpdateBand)
				r.Delete("/", bandHandler.DeleteBand)
				r.Post("/setlist", setlistHandler.AddSong)
			})
		})
		r.With(authMW, handlers.RequireAdmin).Delete("/setlist/{songID}", setlistHandler.DeleteSong)

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", companyHandler.ListCompanies)
			r.Group(func(r chi.Router) {
				r.Use(authMW, handlers.RequireAdmin)
				r.Post("/", companyHandler.CreateCompany)
				r.Put("/{companyID}", companyHandler.UpdateCompany)
				r.Delete("/{companyID}", companyHandler.DeleteCompany)
			})
		})

		r.Route("/photographers", func(r chi.Router) {
			r.Get("/", photographerHandler.ListPhotographers)
			r.Group(func(r chi.Router) {
				r.Use(authMW, handlers.RequireAdmin)
				r.Post("/", photographerHandler.CreatePhotographer)
				r.Put("/{photographerID}", photographerHandler.UpdatePhotographer)
				r.Delete("/{photographerID}", photographerHandler.DeletePhotographer)
			})
		})

		r.Route("/photos", func(r chi.Router) {
			r.Get("/", photoHandler.SearchPhotos)
			r.With(authMW, handlers.RequireAdmin).Post("/", photoHandler.UploadPhoto)

			r.Route("/{photoID}", func(r chi.Router) {
				r.Get("/", photoHandler.GetPhoto)
				r.Get("/duplicates", photoHandler.GetNearDuplicates)
				r.Group(func(r chi.Router) {
					r.Use(authMW, handlers.RequireAdmin)
					r.Put("/labels", photoHandler.UpdatePhotoLabels)
					r.Put("/focal-point", photoHandler.UpdatePhotoFocalPoint)
					r.Put("/associations", photoHandler.UpdatePhotoAssociations)
					r.Delete("/", photoHandler.DeletePhoto)
				})
			})
		})

		r.Route("/videos/{videoID}", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMW, handlers.RequireAdmin)
				r.Put("/", videoHandler.UpdateVideo)
				r.Delete("/", videoHandler.DeleteVideo)
			})
		})

		r.Route("/social", func(r chi.Router) {
			r.Use(authMW, handlers.RequireAdmin)
			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", socialHandler.ListAccounts)
				r.Post("/", socialHandler.CreateAccount)
				r.Put("/{accountID}", socialHandler.UpdateAccount)
				r.Delete("/{accountID}", socialHandler.DeleteAccount)
			})
			r.Route("/posts", func(r chi.Router) {
				r.Get("/", socialHandler.ListPosts)
				r.Post("/", socialHandler.CreatePost)
			})
		})

		r.Route("/admin/invite-codes", func(r chi.Router) {
			r.Use(authMW, handlers.RequireAdmin)
			r.Post("/", inviteCodeHandler.CreateInviteCode)
			r.Get("/", inviteCodeHandler.ListInviteCodes)
			r.Delete("/{codeID}", inviteCodeHandler.DeleteInviteCode)
		})
	})

	r.Get("/ws", hub.ServeWS)

	thumbnailSubDir := filepath.Base(cfg.ThumbnailsPath)
	r.Get(fmt.Sprintf("/media/%s/*", thumbnailSubDir), handlers.AssetServer(cfg.MediaStoragePath, thumbnailSubDir))
	webSubDir := filepath.Base(cfg.WebPath)
	r.Get(fmt.Sprintf("/media/%s/*", webSubDir), handlers.AssetServer(cfg.MediaStoragePath, webSubDir))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	logrus.Infof("server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	logrus.Fatal(server.ListenAndServe())
}
