package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/paysplit/pkg/api"
)

// MethodServiceName is the fully-qualified name of the MethodService.
const MethodServiceName = "paysplit.v1.MethodService"

// Procedure paths of the MethodService.
const (
	MethodServiceListMethodsProcedure     = "/" + MethodServiceName + "/ListMethods"
	MethodServiceListPluginTypesProcedure = "/" + MethodServiceName + "/ListPluginTypes"
	MethodServiceSaveOrderProcedure       = "/" + MethodServiceName + "/SaveOrder"
	MethodServiceSetStatusProcedure       = "/" + MethodServiceName + "/SetStatus"
	MethodServiceDeleteMethodProcedure    = "/" + MethodServiceName + "/DeleteMethod"
	MethodServicePreviewSplitProcedure    = "/" + MethodServiceName + "/PreviewSplit"
)

// MethodServiceHandler administers payment split methods.
type MethodServiceHandler interface {
	ListMethods(context.Context, *connect.Request[api.ListMethodsRequest]) (*connect.Response[api.ListMethodsResponse], error)
	ListPluginTypes(context.Context, *connect.Request[api.ListPluginTypesRequest]) (*connect.Response[api.ListPluginTypesResponse], error)
	SaveOrder(context.Context, *connect.Request[api.SaveOrderRequest]) (*connect.Response[api.SaveOrderResponse], error)
	SetStatus(context.Context, *connect.Request[api.SetStatusRequest]) (*connect.Response[api.SetStatusResponse], error)
	DeleteMethod(context.Context, *connect.Request[api.DeleteMethodRequest]) (*connect.Response[api.DeleteMethodResponse], error)
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
}

// NewMethodServiceHandler returns the path to mount svc on and its handler.
func NewMethodServiceHandler(svc MethodServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	mux := http.NewServeMux()
	mux.Handle(MethodServiceListMethodsProcedure, connect.NewUnaryHandler(MethodServiceListMethodsProcedure, svc.ListMethods, opts...))
	mux.Handle(MethodServiceListPluginTypesProcedure, connect.NewUnaryHandler(MethodServiceListPluginTypesProcedure, svc.ListPluginTypes, opts...))
	mux.Handle(MethodServiceSaveOrderProcedure, connect.NewUnaryHandler(MethodServiceSaveOrderProcedure, svc.SaveOrder, opts...))
	mux.Handle(MethodServiceSetStatusProcedure, connect.NewUnaryHandler(MethodServiceSetStatusProcedure, svc.SetStatus, opts...))
	mux.Handle(MethodServiceDeleteMethodProcedure, connect.NewUnaryHandler(MethodServiceDeleteMethodProcedure, svc.DeleteMethod, opts...))
	mux.Handle(MethodServicePreviewSplitProcedure, connect.NewUnaryHandler(MethodServicePreviewSplitProcedure, svc.PreviewSplit, opts...))
	return "/" + MethodServiceName + "/", mux
}

// MethodServiceClient calls a remote MethodService.
type MethodServiceClient struct {
	listMethods     *connect.Client[api.ListMethodsRequest, api.ListMethodsResponse]
	listPluginTypes *connect.Client[api.ListPluginTypesRequest, api.ListPluginTypesResponse]
	saveOrder       *connect.Client[api.SaveOrderRequest, api.SaveOrderResponse]
	setStatus       *connect.Client[api.SetStatusRequest, api.SetStatusResponse]
	deleteMethod    *connect.Client[api.DeleteMethodRequest, api.DeleteMethodResponse]
	previewSplit    *connect.Client[api.PreviewSplitRequest, api.PreviewSplitResponse]
}

// NewMethodServiceClient returns a client for the service at baseURL.
func NewMethodServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *MethodServiceClient {
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &MethodServiceClient{
		listMethods:     connect.NewClient[api.ListMethodsRequest, api.ListMethodsResponse](httpClient, baseURL+MethodServiceListMethodsProcedure, opts...),
		listPluginTypes: connect.NewClient[api.ListPluginTypesRequest, api.ListPluginTypesResponse](httpClient, baseURL+MethodServiceListPluginTypesProcedure, opts...),
		saveOrder:       connect.NewClient[api.SaveOrderRequest, api.SaveOrderResponse](httpClient, baseURL+MethodServiceSaveOrderProcedure, opts...),
		setStatus:       connect.NewClient[api.SetStatusRequest, api.SetStatusResponse](httpClient, baseURL+MethodServiceSetStatusProcedure, opts...),
		deleteMethod:    connect.NewClient[api.DeleteMethodRequest, api.DeleteMethodResponse](httpClient, baseURL+MethodServiceDeleteMethodProcedure, opts...),
		previewSplit:    connect.NewClient[api.PreviewSplitRequest, api.PreviewSplitResponse](httpClient, baseURL+MethodServicePreviewSplitProcedure, opts...),
	}
}

func (c *MethodServiceClient) ListMethods(ctx context.Context, req *connect.Request[api.ListMethodsRequest]) (*connect.Response[api.ListMethodsResponse], error) {
	return c.listMethods.CallUnary(ctx, req)
}

func (c *MethodServiceClient) ListPluginTypes(ctx context.Context, req *connect.Request[api.ListPluginTypesRequest]) (*connect.Response[api.ListPluginTypesResponse], error) {
	return c.listPluginTypes.CallUnary(ctx, req)
}

func (c *MethodServiceClient) SaveOrder(ctx context.Context, req *connect.Request[api.SaveOrderRequest]) (*connect.Response[api.SaveOrderResponse], error) {
	return c.saveOrder.CallUnary(ctx, req)
}

func (c *MethodServiceClient) SetStatus(ctx context.Context, req *connect.Request[api.SetStatusRequest]) (*connect.Response[api.SetStatusResponse], error) {
	return c.setStatus.CallUnary(ctx, req)
}

func (c *MethodServiceClient) DeleteMethod(ctx context.Context, req *connect.Request[api.DeleteMethodRequest]) (*connect.Response[api.DeleteMethodResponse], error) {
	return c.deleteMethod.CallUnary(ctx, req)
}

func (c *MethodServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}
