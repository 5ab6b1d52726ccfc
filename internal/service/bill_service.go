package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/metrics"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/storage"
	"github.com/mmynk/receiptsplit/internal/validation"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// BillService implements the Connect BillService
type BillService struct {
	api.UnimplementedBillServiceHandler
	store     storage.Store
	validator *validation.Validator
	metrics   *metrics.Metrics
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, m *metrics.Metrics) *BillService {
	return &BillService{
		store:     store,
		validator: validation.New(),
		metrics:   m,
	}
}

// connectError maps domain and storage errors to Connect codes.
func connectError(op string, err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, validation.ErrValidation),
		errors.Is(err, models.ErrInvalidName),
		errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrInvalidItem),
		errors.Is(err, calculator.ErrInvalidParticipant),
		errors.Is(err, storage.ErrForeignItem):
		code = connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		code = connect.CodeAlreadyExists
	default:
		slog.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, fmt.Errorf("%s failed", op))
	}
	return connect.NewError(code, err)
}

// CreateBill stores a new bill with its items. The host becomes the first participant.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connectError("CreateBill", err)
	}

	items, err := toBillItems(req.Msg.Items)
	if err != nil {
		return nil, connectError("CreateBill", err)
	}

	total := req.Msg.Total
	if total.IsZero() {
		total = calculator.BillTotal(models.ToCalculatorItems(items), req.Msg.Tax, req.Msg.Tip)
	}

	bill, err := models.NewBill(req.Msg.HostName, req.Msg.RestaurantName, req.Msg.Tax, req.Msg.Tip, total)
	if err != nil {
		return nil, connectError("CreateBill", err)
	}

	if err := s.store.CreateBill(ctx, bill, items); err != nil {
		return nil, connectError("CreateBill", err)
	}

	slog.Info("Bill created",
		"session_id", bill.SessionID,
		"restaurant", bill.DisplayName(),
		"host", bill.HostName,
		"items", len(items),
		"total", bill.Total.StringFixed(calculator.CurrencyPlaces),
	)

	return connect.NewResponse(&api.CreateBillResponse{
		BillID:    bill.ID,
		SessionID: bill.SessionID,
		Total:     bill.Total,
	}), nil
}

// GetBill returns a bill with its items and participants.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connectError("GetBill", err)
	}

	bill, items, participants, err := s.loadBill(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError("GetBill", err)
	}

	return connect.NewResponse(&api.GetBillResponse{
		Bill:         toAPIBill(bill),
		Items:        toAPIItems(items),
		Participants: toAPIParticipants(participants),
	}), nil
}

// UpdateItems applies edits to existing items. Selections are kept.
func (s *BillService) UpdateItems(ctx context.Context, req *connect.Request[api.UpdateItemsRequest]) (*connect.Response[api.UpdateItemsResponse], error) {
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connectError("UpdateItems", err)
	}
	for i, item := range req.Msg.Items {
		if item.ID == "" {
			return nil, connectError("UpdateItems", &validation.Error{
				Fields: map[string]string{fmt.Sprintf("items[%d].id", i): "is required"},
			})
		}
	}

	bill, err := s.store.GetBillBySession(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError("UpdateItems", err)
	}

	items, err := toBillItems(req.Msg.Items)
	if err != nil {
		return nil, connectError("UpdateItems", err)
	}
	if err := s.store.UpdateItems(ctx, bill.ID, items); err != nil {
		return nil, connectError("UpdateItems", err)
	}

	updated, err := s.store.GetItems(ctx, bill.ID)
	if err != nil {
		return nil, connectError("UpdateItems", err)
	}

	slog.Info("Items updated", "session_id", bill.SessionID, "count", len(items))
	return connect.NewResponse(&api.UpdateItemsResponse{Items: toAPIItems(updated)}), nil
}

// AddItem appends an item to a bill.
func (s *BillService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connectError("AddItem", err)
	}

	bill, err := s.store.GetBillBySession(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError("AddItem", err)
	}

	in := req.Msg.Item
	item, err := models.NewBillItem(in.Name, in.Price, in.Quantity, in.Shared)
	if err != nil {
		return nil, connectError("AddItem", err)
	}
	if err := s.store.AddItem(ctx, bill.ID, item); err != nil {
		return nil, connectError("AddItem", err)
	}

	slog.Info("Item added", "session_id", bill.SessionID, "item_id", item.ID, "name", item.Name)
	return connect.NewResponse(&api.AddItemResponse{Item: toAPIItem(*item)}), nil
}

// RemoveItem deletes an item along with every selection of it.
func (s *BillService) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.RemoveItemResponse], error) {
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connectError("RemoveItem", err)
	}

	bill, err := s.store.GetBillBySession(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError("RemoveItem", err)
	}
	if err := s.store.RemoveItem(ctx, bill.ID, req.Msg.ItemID); err != nil {
		return nil, connectError("RemoveItem", err)
	}

	slog.Info("Item removed", "session_id", bill.SessionID, "item_id", req.Msg.ItemID)
	return connect.NewResponse(&api.RemoveItemResponse{}), nil
}

// JoinBill adds a named participant. Names are unique within a bill.
func (s *BillService) JoinBill(ctx context.Context, req *connect.Request[api.JoinBillRequest]) (*connect.Response[api.JoinBillResponse], error) {
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connectError("JoinBill", err)
	}

	p, err := models.NewParticipant(req.Msg.Name)
	if err != nil {
		return nil, connectError("JoinBill", err)
	}

	bill, err := s.store.GetBillBySession(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError("JoinBill", err)
	}

	joined, err := s.store.AddParticipant(ctx, bill.ID, p.Name)
	if err != nil {
		return nil, connectError("JoinBill", err)
	}

	slog.Info("Participant joined", "session_id", bill.SessionID, "name", joined.Name)
	return connect.NewResponse(&api.JoinBillResponse{Participant: toAPIParticipant(*joined)}), nil
}

// SetSelections replaces the participant's selected items with exactly item_ids.
func (s *BillService) SetSelections(ctx context.Context, req *connect.Request[api.SetSelectionsRequest]) (*connect.Response[api.SetSelectionsResponse], error) {
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connectError("SetSelections", err)
	}

	bill, err := s.store.GetBillBySession(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError("SetSelections", err)
	}

	participants, err := s.store.GetParticipants(ctx, bill.ID)
	if err != nil {
		return nil, connectError("SetSelections", err)
	}
	if !hasParticipant(participants, req.Msg.ParticipantID) {
		return nil, connectError("SetSelections",
			fmt.Errorf("participant %s: %w", req.Msg.ParticipantID, storage.ErrNotFound))
	}

	itemIDs := models.UniqueIDs(req.Msg.ItemIDs)
	if err := s.store.SetSelections(ctx, req.Msg.ParticipantID, itemIDs); err != nil {
		return nil, connectError("SetSelections", err)
	}

	slog.Debug("Selections replaced",
		"session_id", bill.SessionID,
		"participant_id", req.Msg.ParticipantID,
		"items", len(itemIDs),
	)
	return connect.NewResponse(&api.SetSelectionsResponse{ItemIDs: itemIDs}), nil
}

// GetSummary computes every participant's share from the stored bill.
func (s *BillService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connectError("GetSummary", err)
	}

	bill, items, participants, err := s.loadBill(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, connectError("GetSummary", err)
	}

	calcItems := models.ToCalculatorItems(items)
	result, err := s.compute(bill.SessionID, calcItems, models.ParticipantNames(participants),
		models.SelectionsByItem(participants), bill.Tax, bill.Tip)
	if err != nil {
		return nil, connectError("GetSummary", err)
	}

	totalBill := calculator.BillTotal(calcItems, bill.Tax, bill.Tip)
	return connect.NewResponse(&api.GetSummaryResponse{
		SessionID:      bill.SessionID,
		RestaurantName: bill.DisplayName(),
		HostName:       bill.HostName,
		Summary:        buildSummary(result, totalBill, bill.HostName),
	}), nil
}

// CalculateShares computes shares for an ad-hoc bill without storing it.
// Items without an id are numbered item-1, item-2, ... by position.
func (s *BillService) CalculateShares(ctx context.Context, req *connect.Request[api.CalculateSharesRequest]) (*connect.Response[api.CalculateSharesResponse], error) {
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connectError("CalculateShares", err)
	}

	items := make([]calculator.Item, len(req.Msg.Items))
	for i, in := range req.Msg.Items {
		id := in.ID
		if id == "" {
			id = fmt.Sprintf("item-%d", i+1)
		}
		items[i] = calculator.Item{
			ID:         id,
			Name:       in.Name,
			Price:      in.Price,
			Quantity:   in.Quantity,
			Shared:     in.Shared,
			SelectedBy: in.SelectedBy,
		}
	}

	result, err := s.compute("", items, req.Msg.Participants, calculator.SelectionsFromItems(items), req.Msg.Tax, req.Msg.Tip)
	if err != nil {
		return nil, connectError("CalculateShares", err)
	}

	totalBill := req.Msg.Total
	if totalBill.IsZero() {
		totalBill = calculator.BillTotal(items, req.Msg.Tax, req.Msg.Tip)
	}

	return connect.NewResponse(&api.CalculateSharesResponse{
		Summary: buildSummary(result, totalBill, req.Msg.Host),
	}), nil
}

// DeleteBill removes a bill and everything attached to it.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	if err := s.validator.Validate(req.Msg); err != nil {
		return nil, connectError("DeleteBill", err)
	}
	if err := s.store.DeleteBill(ctx, req.Msg.SessionID); err != nil {
		return nil, connectError("DeleteBill", err)
	}

	slog.Info("Bill deleted", "session_id", req.Msg.SessionID)
	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}

// loadBill reads a bill with its items and participants.
func (s *BillService) loadBill(ctx context.Context, sessionID string) (*models.Bill, []models.BillItem, []models.Participant, error) {
	bill, err := s.store.GetBillBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, err
	}
	items, err := s.store.GetItems(ctx, bill.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	participants, err := s.store.GetParticipants(ctx, bill.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return bill, items, participants, nil
}

// compute runs the allocation engine and records its outcome.
func (s *BillService) compute(sessionID string, items []calculator.Item, participants []string, selections map[string][]string, tax, tip decimal.Decimal) (*calculator.Result, error) {
	result, err := calculator.ComputeShares(items, participants, selections, tax, tip)
	if err != nil {
		s.observe(metrics.OutcomeInvalid, 0, 0)
		return nil, err
	}

	for _, o := range result.Orphaned {
		slog.Warn("Ignoring selection by non-participant",
			"session_id", sessionID,
			"item_id", o.ItemID,
			"participant", o.Participant,
		)
	}

	outcome := metrics.OutcomeOK
	if result.NoParticipants {
		outcome = metrics.OutcomeNoParticipants
	}
	s.observe(outcome, len(result.Unclaimed), len(result.Orphaned))

	slog.Debug("Shares computed",
		"session_id", sessionID,
		"participants", len(participants),
		"items", len(items),
		"unclaimed", len(result.Unclaimed),
	)
	return result, nil
}

func (s *BillService) observe(outcome string, unclaimed, orphaned int) {
	if s.metrics != nil {
		s.metrics.ObserveComputation(outcome, unclaimed, orphaned)
	}
}

func hasParticipant(participants []models.Participant, id string) bool {
	for _, p := range participants {
		if p.ID == id {
			return true
		}
	}
	return false
}
