package main

import (
	"context"
	"os"

	appconfig "wasteloop/internal/config"
	"wasteloop/internal/domain/policy"
	"wasteloop/internal/domain/sqlite"
	"wasteloop/internal/domain/sqlite/repository"
	handler2 "wasteloop/internal/http/handler"
	geminiclient "wasteloop/internal/infrastructure/gemini"
	"wasteloop/internal/matching"
	"wasteloop/internal/service"
	"wasteloop/internal/utils/uid"
	"wasteloop/internal/utils/validators"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const envVarsPrefix = "/wasteloop/prod/"

func main() {
	validate := validator.New()
	registerValidators(validate)

	// Loads env vars depending on environment
	if os.Getenv("GO_ENV") == "production" {
		loadProdEnv() // AWS SSM Parameter Store
	} else {
		// Loads from .env
		err := godotenv.Load()
		if err != nil {
			log.Warnf("no .env file loaded: %v", err)
		}
	}

	cfg, err := appconfig.Load()
	if err != nil {
		panic(err)
	}

	uid.Init(cfg.MachineID)

	// Init SQLite
	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		panic(err)
	}

	// Gettings repos
	companyRepo := repository.NewCompanyRepository(db)
	residueRepo := repository.NewResidueRepository(db)
	needRepo := repository.NewNeedRepository(db)
	negotiationRepo := repository.NewNegotiationRepository(db)

	// Getting services
	negotiationPolicy := policy.NewNegotiationPolicy(cfg.AllowClosedChat)
	negotiationService := service.NewNegotiationService(negotiationRepo, residueRepo, companyRepo, negotiationPolicy, validate)
	matchService := service.NewMatchService(buildScorer(cfg), residueRepo, needRepo, companyRepo)
	listingService := service.NewListingService(residueRepo, needRepo, companyRepo, validate)

	// Gettings handler
	negotiationRoutes := handler2.NewNegotiationDefault(negotiationService)
	matchRoutes := handler2.NewMatchDefault(matchService)
	listingRoutes := handler2.NewListingDefault(listingService)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))

	// Matching
	e.POST("/api/matches", matchRoutes.FindMatches)

	// Negotiations
	e.POST("/api/negotiations", negotiationRoutes.CreateNegotiation)
	e.GET("/api/negotiations", negotiationRoutes.ListNegotiations)
	e.GET("/api/negotiations/:id", negotiationRoutes.GetNegotiation)
	e.PATCH("/api/negotiations/:id/status", negotiationRoutes.SetStatus)
	e.PATCH("/api/negotiations/:id/offer", negotiationRoutes.EditOffer)
	e.POST("/api/negotiations/:id/messages", negotiationRoutes.SendMessage)

	// Listings
	e.POST("/api/residues", listingRoutes.CreateResidue)
	e.GET("/api/residues", listingRoutes.ListResidues)
	e.GET("/api/residues/:id", listingRoutes.GetResidue)
	e.POST("/api/needs", listingRoutes.CreateNeed)
	e.GET("/api/needs", listingRoutes.ListNeeds)
	e.GET("/api/needs/:id", listingRoutes.GetNeed)

	// Companies
	e.POST("/api/companies", listingRoutes.CreateCompany)
	e.GET("/api/companies/:id", listingRoutes.GetCompany)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	if err := e.Start(cfg.ServerAddress); err != nil {
		panic(err)
	}
}

// buildScorer picks the inference-backed scorer when an API key is present
// and falls back to the deterministic heuristic otherwise.
func buildScorer(cfg appconfig.Config) matching.Scorer {
	if cfg.GeminiAPIKey == "" {
		log.Info("no GEMINI_API_KEY configured, using heuristic scorer")
		return matching.NewHeuristicScorer()
	}

	client, err := geminiclient.NewClient(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Warnf("failed to init gemini client, falling back to heuristic scorer: %v", err)
		return matching.NewHeuristicScorer()
	}
	return client
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
}

func loadProdEnv() {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-2"))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})
	if err != nil {
		log.Fatalf("unable to load prod environment, %v", err)
	}

	prefixLength := len(envVarsPrefix)
	// Export vars
	for _, param := range out.Parameters {
		key := (*param.Name)[prefixLength:]
		value := *param.Value
		enverr := os.Setenv(key, value)
		if enverr != nil {
			log.Fatalf("unable to set environment variable, %v", enverr)
		}
	}
	log.Debugf("loaded %d prod environment variables", len(out.Parameters))
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
