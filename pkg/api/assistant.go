package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AssistantServiceName is the fully-qualified name of the AssistantService.
const AssistantServiceName = "splitledger.v1.AssistantService"

// Procedure paths of the AssistantService.
const (
	AssistantServiceAskProcedure = "/" + AssistantServiceName + "/Ask"
)

// AssistantServiceHandler answers free-text questions about the ledger.
type AssistantServiceHandler interface {
	Ask(context.Context, *connect.Request[AskRequest]) (*connect.Response[AskResponse], error)
}

// NewAssistantServiceHandler builds an HTTP handler for svc. It returns the path
// to mount the handler on.
func NewAssistantServiceHandler(svc AssistantServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AssistantServiceAskProcedure, connect.NewUnaryHandler(AssistantServiceAskProcedure, svc.Ask, opts...))
	return "/" + AssistantServiceName + "/", mux
}

// AssistantServiceClient is a client for the AssistantService.
type AssistantServiceClient struct {
	ask *connect.Client[AskRequest, AskResponse]
}

// NewAssistantServiceClient constructs a client for the AssistantService at baseURL
// (for example, http://localhost:8080).
func NewAssistantServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AssistantServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AssistantServiceClient{
		ask: connect.NewClient[AskRequest, AskResponse](httpClient, baseURL+AssistantServiceAskProcedure, opts...),
	}
}

func (c *AssistantServiceClient) Ask(ctx context.Context, req *connect.Request[AskRequest]) (*connect.Response[AskResponse], error) {
	return c.ask.CallUnary(ctx, req)
}
