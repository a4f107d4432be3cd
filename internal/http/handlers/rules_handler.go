package handlers

import (
	"github.com/gin-gonic/gin"
)

// RuleView describes one translation rule.
type RuleView struct {
	Name       string `json:"name" example:"missing_parameter"`
	Kind       string `json:"kind" example:"missing_parameter"`
	Parent     string `json:"parent,omitempty" example:"unknown"`
	Depth      int    `json:"depth" example:"1"`
	Code       int    `json:"code" example:"1007"`
	HTTPStatus int    `json:"http_status" example:"200"`
}

// ListRulesResponse lists the rules in the order they are tried.
type ListRulesResponse struct {
	Rules []RuleView `json:"rules"`
}

// ListRules godoc
// @ID          listRules
// @Summary     List translation rules
// @Description Returns the effective rule table in evaluation order: most specific kinds first, the catch-all last.
// @Tags        Rules
// @Produce     json
// @Success     200  {object}  handlers.ListRulesResponse
// @Router      /rules [get]
func (h *Handlers) ListRules(c *gin.Context) {
	rules := h.tr.Table().Rules()
	out := make([]RuleView, 0, len(rules))
	for _, r := range rules {
		v := RuleView{
			Name:       r.Name,
			Kind:       r.Kind.String(),
			Depth:      r.Kind.Depth(),
			Code:       r.Code,
			HTTPStatus: r.HTTPStatus,
		}
		if v.HTTPStatus == 0 {
			v.HTTPStatus = 200
		}
		if r.Kind.Depth() > 0 {
			v.Parent = r.Kind.Parent().String()
		}
		out = append(out, v)
	}
	ok(c, ListRulesResponse{Rules: out})
}
