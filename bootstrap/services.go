package bootstrap

import (
	"goldenticket/api"
	"goldenticket/config"
	"goldenticket/docs"
	"goldenticket/storage"

	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

const (
	// DocName identifies the API document served by the pipeline
	DocName = "v1"
	// DocTitle and DocVersion are the document's info block
	DocTitle   = "Golden Ticket Api"
	DocVersion = "v1"
)

// Services is the registration container filled by RegisterServices and
// resolved by NewApp.
type Services struct {
	// NewRouter builds the request router around a serving store
	NewRouter func(store api.SchoolStorer) *api.API

	// StoreFactory opens data contexts bound to the configured connection string
	StoreFactory storage.Factory

	// Docs is the registered API document generator
	Docs    *swag.Spec
	DocName string
}

// RegisterServices declares the router, the store factory and the API
// document. Nothing is opened here; a bad connection string is reported when
// StoreFactory is first called.
func RegisterServices(cfg *config.Config, sugar *zap.SugaredLogger, services *Services) {
	services.NewRouter = func(store api.SchoolStorer) *api.API {
		return api.NewAPI(store, sugar)
	}

	services.StoreFactory = storage.NewFactory(cfg.ConnectionString, sugar)

	docs.SwaggerInfo.Title = DocTitle
	docs.SwaggerInfo.Version = DocVersion
	services.Docs = docs.SwaggerInfo
	services.DocName = DocName
}
