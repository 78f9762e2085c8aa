// Package api holds the request and response messages of the paysplit admin
// RPC API. Messages travel as JSON.
package api

// Method is a configured payment split method.
type Method struct {
	ID         string            `json:"id"`
	Label      string            `json:"label"`
	Weight     int               `json:"weight"`
	Enabled    bool              `json:"enabled"`
	Locked     bool              `json:"locked"`
	PluginID   string            `json:"plugin_id"`
	PluginName string            `json:"plugin_name"`
	Settings   map[string]string `json:"settings,omitempty"`
	UpdatedAt  int64             `json:"updated_at"`
}

// PluginType is a plugin that methods can be created from.
type PluginType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
	CanSplit    bool   `json:"can_split,omitempty"`
}

type ListMethodsRequest struct{}

type ListMethodsResponse struct {
	Methods []*Method `json:"methods"`
}

type ListPluginTypesRequest struct {
	// IncludeHidden also returns plugins that cannot be added from the UI.
	IncludeHidden bool `json:"include_hidden,omitempty"`
}

type ListPluginTypesResponse struct {
	Plugins []*PluginType `json:"plugins"`
}

// SaveOrderRequest lists method IDs in their new display order. Methods not
// listed keep their weight.
type SaveOrderRequest struct {
	MethodIDs []string `json:"method_ids" validate:"required,unique,dive,required"`
}

type SaveOrderResponse struct {
	Methods []*Method `json:"methods"`
}

type SetStatusRequest struct {
	MethodID string `json:"method_id" validate:"required"`
	Enabled  bool   `json:"enabled"`
}

type SetStatusResponse struct {
	Method *Method `json:"method"`
}

type DeleteMethodRequest struct {
	MethodID string `json:"method_id" validate:"required"`
}

type DeleteMethodResponse struct{}

// Line is one order line of a split preview.
type Line struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount" validate:"gte=0"`
	AssignedTo  []string `json:"assigned_to,omitempty"`
}

type PreviewSplitRequest struct {
	MethodID string   `json:"method_id" validate:"required"`
	Total    float64  `json:"total" validate:"gte=0"`
	Subtotal float64  `json:"subtotal" validate:"gt=0"`
	Payers   []string `json:"payers" validate:"required,unique,dive,required"`
	Lines    []Line   `json:"lines,omitempty" validate:"dive"`
}

// Share is what one payer owes.
type Share struct {
	Payer    string  `json:"payer"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

type PreviewSplitResponse struct {
	Shares []*Share `json:"shares"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Admin struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Admin     *Admin `json:"admin"`
}
