package catalog

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// AnswerListSchema describes the endpoint payload: an array of {id, text}.
func AnswerListSchema() *openapi3.Schema {
	item := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewIntegerSchema()).
		WithProperty("text", openapi3.NewStringSchema())
	item.Required = []string{"id", "text"}
	return openapi3.NewArraySchema().WithItems(item)
}

// OpenAPI returns an OpenAPI 3 description of the answers endpoint mounted
// under basePath.
func OpenAPI(basePath string) *openapi3.T {
	op := openapi3.NewOperation()
	op.OperationID = "listQuestionAnswers"
	op.Summary = "List the answer options of a question"
	op.AddParameter(openapi3.NewPathParameter("questionId").WithSchema(openapi3.NewIntegerSchema()))
	op.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Answer options in catalog order").
		WithJSONSchema(AnswerListSchema()))

	path := mountPath(basePath, defaultRoutePath) + "{questionId}/answers/"
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "Survey answers",
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(path, &openapi3.PathItem{Get: op})),
	}
}
