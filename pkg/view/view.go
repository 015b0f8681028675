// Package view exposes salon operations to the LLM as named views.
//
// Each view declares a name, a description and a parameter schema; the
// router hands the set to the model as callable functions and executes
// whichever one the model picks.
package view

import (
	"errors"
	"fmt"

	"github.com/beauteq/salon-assistant/pkg/llm"
)

// ErrUnknownView is returned when the model asks for a view that does not exist
var ErrUnknownView = errors.New("unknown view")

// View is one operation callable by the model
type View interface {
	// Name returns the view name the model calls it by
	Name() string

	// Description tells the model when to pick this view
	Description() string

	// Parameters returns the parameter schema shown to the model
	Parameters() map[string]interface{}

	// Execute runs the view and returns raw data
	Execute(params map[string]interface{}) (interface{}, error)

	// Render turns raw data into the Telegram-Markdown text for the user
	Render(result interface{}) string
}

// UserScoped marks views that operate on behalf of a specific user. The
// processor injects the caller's user_id before execution.
type UserScoped interface {
	UserScoped() bool
}

// Router holds the registered views
type Router struct {
	views map[string]View
	order []string
}

// NewRouter registers the given views
func NewRouter(views ...View) *Router {
	r := &Router{views: make(map[string]View, len(views))}
	for _, v := range views {
		r.views[v.Name()] = v
		r.order = append(r.order, v.Name())
	}
	return r
}

// Definitions returns the views as tools for the LLM, in registration order
func (r *Router) Definitions() []llm.Tool {
	tools := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		v := r.views[name]
		tools = append(tools, llm.Tool{
			Name:        v.Name(),
			Description: v.Description(),
			Parameters:  v.Parameters(),
		})
	}
	return tools
}

// Get returns a view by name
func (r *Router) Get(name string) (View, bool) {
	v, ok := r.views[name]
	return v, ok
}

// Execute runs a view by name
func (r *Router) Execute(name string, params map[string]interface{}) (interface{}, error) {
	v, ok := r.views[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, name)
	}
	return v.Execute(params)
}

// Render renders a view result by name
func (r *Router) Render(name string, result interface{}) string {
	v, ok := r.views[name]
	if !ok {
		return fmt.Sprintf("Ошибка: неизвестная функция %s", name)
	}
	return v.Render(result)
}

// stringParam extracts an optional string parameter
func stringParam(params map[string]interface{}, name string) string {
	if v, ok := params[name].(string); ok {
		return v
	}
	return ""
}

// int64Param extracts an integer parameter; JSON decoding yields float64
func int64Param(params map[string]interface{}, name string) int64 {
	switch v := params[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
