// Package service implements the Connect handlers of the admin API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"connectrpc.com/connect"

	"github.com/mmynk/paysplit/internal/calculator"
	"github.com/mmynk/paysplit/internal/metrics"
	"github.com/mmynk/paysplit/internal/middleware"
	"github.com/mmynk/paysplit/internal/models"
	"github.com/mmynk/paysplit/internal/natsort"
	"github.com/mmynk/paysplit/internal/plugin"
	"github.com/mmynk/paysplit/internal/storage"
	"github.com/mmynk/paysplit/pkg/api"
	"github.com/mmynk/paysplit/pkg/api/apiconnect"
)

var _ apiconnect.MethodServiceHandler = (*MethodService)(nil)

// MethodService implements the Connect MethodService.
type MethodService struct {
	store    storage.MethodStore
	registry *plugin.Registry
	metrics  *metrics.Metrics
}

// NewMethodService creates a MethodService over store. m may be nil.
func NewMethodService(store storage.MethodStore, registry *plugin.Registry, m *metrics.Metrics) *MethodService {
	return &MethodService{store: store, registry: registry, metrics: m}
}

func (s *MethodService) changed(action string) {
	if s.metrics != nil {
		s.metrics.Change(action)
	}
}

// toAPI converts a method, resolving its plugin name.
func (s *MethodService) toAPI(m *models.PaymentSplitMethod) *api.Method {
	out := &api.Method{
		ID:        m.ID,
		Label:     m.Label,
		Weight:    m.Weight,
		Enabled:   m.Status,
		Locked:    m.Locked,
		PluginID:  m.PluginID,
		Settings:  m.Settings,
		UpdatedAt: m.UpdatedAt,
	}
	if def, err := s.registry.Definition(m.PluginID); err == nil {
		out.PluginName = def.Name
	}
	return out
}

// storageError maps storage errors to Connect codes.
func storageError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrLocked):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func (s *MethodService) list(ctx context.Context) ([]*api.Method, error) {
	methods, err := s.store.ListMethods(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*api.Method, len(methods))
	for i, m := range methods {
		out[i] = s.toAPI(m)
	}
	return out, nil
}

// ListMethods returns the methods in display order.
func (s *MethodService) ListMethods(ctx context.Context, req *connect.Request[api.ListMethodsRequest]) (*connect.Response[api.ListMethodsResponse], error) {
	methods, err := s.list(ctx)
	if err != nil {
		slog.Error("ListMethods failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	slog.Info("ListMethods successful", "count", len(methods))
	return connect.NewResponse(&api.ListMethodsResponse{Methods: methods}), nil
}

// ListPluginTypes returns the registered plugins in natural order of their names.
func (s *MethodService) ListPluginTypes(ctx context.Context, req *connect.Request[api.ListPluginTypesRequest]) (*connect.Response[api.ListPluginTypesResponse], error) {
	var plugins []*api.PluginType
	for id, def := range s.registry.Definitions() {
		if def.NoUI && !req.Msg.IncludeHidden {
			continue
		}
		p, _ := s.registry.Get(id)
		_, canSplit := p.(plugin.Splitter)
		plugins = append(plugins, &api.PluginType{
			ID:          id,
			Name:        def.Name,
			Description: def.Description,
			Hidden:      def.NoUI,
			CanSplit:    canSplit,
		})
	}
	sort.Slice(plugins, func(i, j int) bool {
		if c := natsort.Compare(plugins[i].Name, plugins[j].Name); c != 0 {
			return c < 0
		}
		return plugins[i].ID < plugins[j].ID
	})
	return connect.NewResponse(&api.ListPluginTypesResponse{Plugins: plugins}), nil
}

// SaveOrder weights the listed methods by position, centered on zero the way
// the listing's drag handle does.
func (s *MethodService) SaveOrder(ctx context.Context, req *connect.Request[api.SaveOrderRequest]) (*connect.Response[api.SaveOrderResponse], error) {
	ids := req.Msg.MethodIDs
	slog.Info("SaveOrder request received", "count", len(ids), "admin_id", middleware.GetAdminID(ctx))

	methods, err := s.store.ListMethods(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	current := make(map[string]int, len(methods))
	for _, m := range methods {
		current[m.ID] = m.Weight
	}

	weights := make(map[string]int)
	start := -len(ids) / 2
	for i, id := range ids {
		w, ok := current[id]
		if !ok {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("method %s: %w", id, storage.ErrNotFound))
		}
		if w != start+i {
			weights[id] = start + i
		}
	}
	if err := s.store.SaveWeights(ctx, weights); err != nil {
		slog.Error("SaveOrder failed", "error", err)
		return nil, storageError(err)
	}
	s.changed("reorder")

	out, err := s.list(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	slog.Info("SaveOrder successful", "changed", len(weights))
	return connect.NewResponse(&api.SaveOrderResponse{Methods: out}), nil
}

// SetStatus enables or disables a method.
func (s *MethodService) SetStatus(ctx context.Context, req *connect.Request[api.SetStatusRequest]) (*connect.Response[api.SetStatusResponse], error) {
	slog.Info("SetStatus request received", "method_id", req.Msg.MethodID, "enabled", req.Msg.Enabled)

	m, err := s.store.GetMethod(ctx, req.Msg.MethodID)
	if err != nil {
		return nil, storageError(err)
	}
	if m.Status != req.Msg.Enabled {
		m.Status = req.Msg.Enabled
		if err := s.store.UpdateMethod(ctx, m); err != nil {
			slog.Error("SetStatus failed", "method_id", m.ID, "error", err)
			return nil, storageError(err)
		}
		if m.Status {
			s.changed("enable")
		} else {
			s.changed("disable")
		}
	}
	return connect.NewResponse(&api.SetStatusResponse{Method: s.toAPI(m)}), nil
}

// DeleteMethod removes an unlocked method.
func (s *MethodService) DeleteMethod(ctx context.Context, req *connect.Request[api.DeleteMethodRequest]) (*connect.Response[api.DeleteMethodResponse], error) {
	slog.Info("DeleteMethod request received", "method_id", req.Msg.MethodID, "admin_id", middleware.GetAdminID(ctx))

	if err := s.store.DeleteMethod(ctx, req.Msg.MethodID); err != nil {
		slog.Warn("DeleteMethod failed", "method_id", req.Msg.MethodID, "error", err)
		return nil, storageError(err)
	}
	s.changed("delete")
	return connect.NewResponse(&api.DeleteMethodResponse{}), nil
}

// PreviewSplit runs the plugin of a method against a sample order.
func (s *MethodService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	slog.Info("PreviewSplit request received",
		"method_id", req.Msg.MethodID,
		"payers_count", len(req.Msg.Payers),
		"lines_count", len(req.Msg.Lines),
	)

	m, err := s.store.GetMethod(ctx, req.Msg.MethodID)
	if err != nil {
		return nil, storageError(err)
	}
	if !m.Status {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("method %s is disabled", m.ID))
	}

	order := calculator.Order{
		Total:    req.Msg.Total,
		Subtotal: req.Msg.Subtotal,
		Payers:   req.Msg.Payers,
	}
	for _, l := range req.Msg.Lines {
		order.Lines = append(order.Lines, calculator.Line{
			Description: l.Description,
			Amount:      l.Amount,
			AssignedTo:  l.AssignedTo,
		})
	}

	shares, err := s.registry.Split(m.PluginID, order, m.Settings)
	if err != nil {
		slog.Warn("PreviewSplit failed", "method_id", m.ID, "error", err)
		switch {
		case errors.Is(err, plugin.ErrNotSplitter):
			return nil, connect.NewError(connect.CodeFailedPrecondition, err)
		case errors.Is(err, plugin.ErrUnknownPlugin):
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	resp := &api.PreviewSplitResponse{}
	for _, p := range req.Msg.Payers {
		sh, ok := shares[p]
		if !ok {
			continue
		}
		resp.Shares = append(resp.Shares, &api.Share{
			Payer:    p,
			Subtotal: sh.Subtotal,
			Tax:      sh.Tax,
			Total:    sh.Total,
		})
	}
	slog.Info("PreviewSplit successful", "method_id", m.ID, "shares", len(resp.Shares))
	return connect.NewResponse(resp), nil
}
