package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// BillServiceName is the fully-qualified name of the BillService service.
	BillServiceName = "receiptsplit.v1.BillService"
)

// Procedure paths, in the /package.Service/Method form Connect routes on.
const (
	BillServiceCreateBillProcedure      = "/receiptsplit.v1.BillService/CreateBill"
	BillServiceGetBillProcedure         = "/receiptsplit.v1.BillService/GetBill"
	BillServiceUpdateItemsProcedure     = "/receiptsplit.v1.BillService/UpdateItems"
	BillServiceAddItemProcedure         = "/receiptsplit.v1.BillService/AddItem"
	BillServiceRemoveItemProcedure      = "/receiptsplit.v1.BillService/RemoveItem"
	BillServiceJoinBillProcedure        = "/receiptsplit.v1.BillService/JoinBill"
	BillServiceSetSelectionsProcedure   = "/receiptsplit.v1.BillService/SetSelections"
	BillServiceGetSummaryProcedure      = "/receiptsplit.v1.BillService/GetSummary"
	BillServiceCalculateSharesProcedure = "/receiptsplit.v1.BillService/CalculateShares"
	BillServiceDeleteBillProcedure      = "/receiptsplit.v1.BillService/DeleteBill"
)

// BillServiceHandler is implemented by the server.
type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error)
	UpdateItems(context.Context, *connect.Request[UpdateItemsRequest]) (*connect.Response[UpdateItemsResponse], error)
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error)
	RemoveItem(context.Context, *connect.Request[RemoveItemRequest]) (*connect.Response[RemoveItemResponse], error)
	JoinBill(context.Context, *connect.Request[JoinBillRequest]) (*connect.Response[JoinBillResponse], error)
	SetSelections(context.Context, *connect.Request[SetSelectionsRequest]) (*connect.Response[SetSelectionsResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
	CalculateShares(context.Context, *connect.Request[CalculateSharesRequest]) (*connect.Response[CalculateSharesResponse], error)
	DeleteBill(context.Context, *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
// The JSON codec is always installed; opts may add interceptors.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{
		connect.WithCodec(JSONCodec{}),
		connect.WithCodec(charsetJSONCodec{}),
	}, opts...)

	mux := http.NewServeMux()
	mux.Handle(BillServiceCreateBillProcedure, connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...))
	mux.Handle(BillServiceGetBillProcedure, connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...))
	mux.Handle(BillServiceUpdateItemsProcedure, connect.NewUnaryHandler(BillServiceUpdateItemsProcedure, svc.UpdateItems, opts...))
	mux.Handle(BillServiceAddItemProcedure, connect.NewUnaryHandler(BillServiceAddItemProcedure, svc.AddItem, opts...))
	mux.Handle(BillServiceRemoveItemProcedure, connect.NewUnaryHandler(BillServiceRemoveItemProcedure, svc.RemoveItem, opts...))
	mux.Handle(BillServiceJoinBillProcedure, connect.NewUnaryHandler(BillServiceJoinBillProcedure, svc.JoinBill, opts...))
	mux.Handle(BillServiceSetSelectionsProcedure, connect.NewUnaryHandler(BillServiceSetSelectionsProcedure, svc.SetSelections, opts...))
	mux.Handle(BillServiceGetSummaryProcedure, connect.NewUnaryHandler(BillServiceGetSummaryProcedure, svc.GetSummary, opts...))
	mux.Handle(BillServiceCalculateSharesProcedure, connect.NewUnaryHandler(BillServiceCalculateSharesProcedure, svc.CalculateShares, opts...))
	mux.Handle(BillServiceDeleteBillProcedure, connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...))

	return "/" + BillServiceName + "/", mux
}

// BillServiceClient is a Connect client for BillService.
type BillServiceClient struct {
	createBill      *connect.Client[CreateBillRequest, CreateBillResponse]
	getBill         *connect.Client[GetBillRequest, GetBillResponse]
	updateItems     *connect.Client[UpdateItemsRequest, UpdateItemsResponse]
	addItem         *connect.Client[AddItemRequest, AddItemResponse]
	removeItem      *connect.Client[RemoveItemRequest, RemoveItemResponse]
	joinBill        *connect.Client[JoinBillRequest, JoinBillResponse]
	setSelections   *connect.Client[SetSelectionsRequest, SetSelectionsResponse]
	getSummary      *connect.Client[GetSummaryRequest, GetSummaryResponse]
	calculateShares *connect.Client[CalculateSharesRequest, CalculateSharesResponse]
	deleteBill      *connect.Client[DeleteBillRequest, DeleteBillResponse]
}

// NewBillServiceClient constructs a client for the service at baseURL
// (for example, http://localhost:8080).
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &BillServiceClient{
		createBill:      connect.NewClient[CreateBillRequest, CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:         connect.NewClient[GetBillRequest, GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		updateItems:     connect.NewClient[UpdateItemsRequest, UpdateItemsResponse](httpClient, baseURL+BillServiceUpdateItemsProcedure, opts...),
		addItem:         connect.NewClient[AddItemRequest, AddItemResponse](httpClient, baseURL+BillServiceAddItemProcedure, opts...),
		removeItem:      connect.NewClient[RemoveItemRequest, RemoveItemResponse](httpClient, baseURL+BillServiceRemoveItemProcedure, opts...),
		joinBill:        connect.NewClient[JoinBillRequest, JoinBillResponse](httpClient, baseURL+BillServiceJoinBillProcedure, opts...),
		setSelections:   connect.NewClient[SetSelectionsRequest, SetSelectionsResponse](httpClient, baseURL+BillServiceSetSelectionsProcedure, opts...),
		getSummary:      connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+BillServiceGetSummaryProcedure, opts...),
		calculateShares: connect.NewClient[CalculateSharesRequest, CalculateSharesResponse](httpClient, baseURL+BillServiceCalculateSharesProcedure, opts...),
		deleteBill:      connect.NewClient[DeleteBillRequest, DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
	}
}

func (c *BillServiceClient) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) UpdateItems(ctx context.Context, req *connect.Request[UpdateItemsRequest]) (*connect.Response[UpdateItemsResponse], error) {
	return c.updateItems.CallUnary(ctx, req)
}

func (c *BillServiceClient) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *BillServiceClient) RemoveItem(ctx context.Context, req *connect.Request[RemoveItemRequest]) (*connect.Response[RemoveItemResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

func (c *BillServiceClient) JoinBill(ctx context.Context, req *connect.Request[JoinBillRequest]) (*connect.Response[JoinBillResponse], error) {
	return c.joinBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) SetSelections(ctx context.Context, req *connect.Request[SetSelectionsRequest]) (*connect.Response[SetSelectionsResponse], error) {
	return c.setSelections.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *BillServiceClient) CalculateShares(ctx context.Context, req *connect.Request[CalculateSharesRequest]) (*connect.Response[CalculateSharesResponse], error) {
	return c.calculateShares.CallUnary(ctx, req)
}

func (c *BillServiceClient) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

// UnimplementedBillServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBillServiceHandler struct{}

var errUnimplemented = errors.New("not implemented")

func (UnimplementedBillServiceHandler) CreateBill(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) GetBill(context.Context, *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) UpdateItems(context.Context, *connect.Request[UpdateItemsRequest]) (*connect.Response[UpdateItemsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) RemoveItem(context.Context, *connect.Request[RemoveItemRequest]) (*connect.Response[RemoveItemResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) JoinBill(context.Context, *connect.Request[JoinBillRequest]) (*connect.Response[JoinBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) SetSelections(context.Context, *connect.Request[SetSelectionsRequest]) (*connect.Response[SetSelectionsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) CalculateShares(context.Context, *connect.Request[CalculateSharesRequest]) (*connect.Response[CalculateSharesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}

func (UnimplementedBillServiceHandler) DeleteBill(context.Context, *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented)
}
