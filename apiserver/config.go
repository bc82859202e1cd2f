package main

// nolint: lll
import (
	"context"

	"github.com/postwright/postwright/apiserver/internal/authx"
	authxMongodb "github.com/postwright/postwright/apiserver/internal/authx/mongodb"
	authxREST "github.com/postwright/postwright/apiserver/internal/authx/rest"
	"github.com/postwright/postwright/apiserver/internal/content"
	contentGenai "github.com/postwright/postwright/apiserver/internal/content/genai"
	contentMongodb "github.com/postwright/postwright/apiserver/internal/content/mongodb"
	contentRedis "github.com/postwright/postwright/apiserver/internal/content/redis"
	contentREST "github.com/postwright/postwright/apiserver/internal/content/rest"
	"github.com/postwright/postwright/apiserver/internal/lib/mongodb"
	"github.com/postwright/postwright/apiserver/internal/lib/redis"
	"github.com/postwright/postwright/apiserver/internal/lib/restmachinery"
	"github.com/postwright/postwright/apiserver/internal/lib/restmachinery/authn"
)

func getAPIServerFromEnvironment() (restmachinery.Server, error) {

	// API server config
	apiConfig, err := restmachinery.GetConfigFromEnvironment()
	if err != nil {
		return nil, err
	}

	// Common
	database, err := mongodb.Database()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis.Client()
	if err != nil {
		return nil, err
	}

	// Users and Sessions-- the two services share both stores
	usersStore, err := authxMongodb.NewUsersStore(database)
	if err != nil {
		return nil, err
	}
	sessionsStore, err := authxMongodb.NewSessionsStore(database)
	if err != nil {
		return nil, err
	}
	sessionsService := authx.NewSessionsService(sessionsStore, usersStore)
	usersService := authx.NewUsersService(usersStore, sessionsStore)

	// Personas
	personasStore, err := contentMongodb.NewPersonasStore(database)
	if err != nil {
		return nil, err
	}
	personasService := content.NewPersonasService(personasStore)

	// Content generation-- depends on personas
	engineConfig, err := contentGenai.GetEngineConfigFromEnvironment()
	if err != nil {
		return nil, err
	}
	engine, err := contentGenai.NewEngine(context.Background(), engineConfig)
	if err != nil {
		return nil, err
	}
	generationConfig, err := content.GetGenerationConfigFromEnvironment()
	if err != nil {
		return nil, err
	}
	generationService := content.NewGenerationService(
		personasService,
		engine,
		contentRedis.NewUsageStore(redisClient),
		generationConfig.DailyLimit,
	)

	baseEndpoints := &restmachinery.BaseEndpoints{
		TokenAuthFilter: authn.NewTokenAuthFilter(
			sessionsService.GetByToken,
			usersService.Get,
		),
	}

	return restmachinery.NewServer(
		apiConfig,
		baseEndpoints,
		[]restmachinery.Endpoints{
			authxREST.NewSessionsEndpoints(baseEndpoints, sessionsService),
			authxREST.NewUsersEndpoints(baseEndpoints, usersService),
			contentREST.NewPersonasEndpoints(baseEndpoints, personasService),
			contentREST.NewContentEndpoints(baseEndpoints, generationService),
		},
	), nil
}
