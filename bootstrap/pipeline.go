package bootstrap

import (
	"net/http"

	"goldenticket/api"
	"goldenticket/config"

	"go.uber.org/zap"
)

const (
	// DocJSONPath serves the API document
	DocJSONPath = "/swagger/v1/swagger.json"
	// DocUIPrefix serves the interactive documentation page
	DocUIPrefix = "/swagger"
)

// PipelineStages returns the ordered stages placed in front of the router
func PipelineStages(services *Services, env config.Environment, sugar *zap.SugaredLogger) []api.Middleware {
	var stages []api.Middleware
	if env.IsDevelopment() {
		stages = append(stages, api.DeveloperExceptionPage(sugar))
	}
	return append(stages,
		api.SwaggerJSON(DocJSONPath, services.DocName),
		api.SwaggerUI(DocUIPrefix, DocJSONPath),
	)
}

// AssemblePipeline wraps router in the request pipeline: the developer
// exception page (Development only), the API document, the documentation UI,
// then router.
func AssemblePipeline(router http.Handler, services *Services, env config.Environment, sugar *zap.SugaredLogger) http.Handler {
	stages := PipelineStages(services, env, sugar)
	sugar.Debugw("Request pipeline assembled", "stages", len(stages)+1, "developer_exception_page", env.IsDevelopment())
	return api.Chain(router, stages...)
}
