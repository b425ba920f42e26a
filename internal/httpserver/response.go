package httpserver

import (
	"time"

	"storefront-api/internal/domain"
	authsvc "storefront-api/internal/service/auth"
)

type roleResponse struct {
	ID    string   `json:"id"`
	Roles []string `json:"roles"`
}

type userResponse struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Gravatar  string        `json:"gravatar"`
	Role      *roleResponse `json:"role"`
}

func toUserResponse(p authsvc.Profile) userResponse {
	resp := userResponse{
		ID:        p.User.ID,
		Email:     p.User.Email,
		FirstName: p.User.FirstName,
		LastName:  p.User.LastName,
		Gravatar:  p.User.Gravatar,
	}
	if p.Role != nil {
		roles := p.Role.Roles
		if roles == nil {
			roles = []string{}
		}
		resp.Role = &roleResponse{ID: p.Role.ID, Roles: roles}
	}
	return resp
}

type cartLineResponse struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// cartResponse has a null id when the user has no cart yet.
type cartResponse struct {
	ID    *string            `json:"id"`
	User  string             `json:"user"`
	Items []cartLineResponse `json:"items"`
}

func toCartResponse(v domain.CartView) cartResponse {
	resp := cartResponse{User: v.Cart.UserID, Items: make([]cartLineResponse, 0, len(v.Lines))}
	if v.Cart.ID != "" {
		id := v.Cart.ID
		resp.ID = &id
	}
	for _, line := range v.Lines {
		if !line.Present() {
			continue
		}
		resp.Items = append(resp.Items, cartLineResponse{Product: *line.Product, Quantity: line.Quantity})
	}
	return resp
}

type orderLineResponse struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Price    float64        `json:"price"`
	Subtotal float64        `json:"subtotal"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	User        string              `json:"user"`
	Items       []orderLineResponse `json:"items"`
	TotalAmount float64             `json:"total_amount"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toOrderResponse(v domain.OrderView) orderResponse {
	resp := orderResponse{
		ID:          v.Order.ID,
		User:        v.Order.UserID,
		Items:       make([]orderLineResponse, 0, len(v.Lines)),
		TotalAmount: v.Order.TotalAmount,
		Status:      v.Order.Status,
		CreatedAt:   v.Order.CreatedAt,
	}
	for _, line := range v.Lines {
		if !line.Present() {
			continue
		}
		resp.Items = append(resp.Items, orderLineResponse{
			Product:  *line.Product,
			Quantity: line.Quantity,
			Price:    line.Price,
			Subtotal: line.Price * float64(line.Quantity),
		})
	}
	return resp
}

type messageResponse struct {
	Message string `json:"message"`
}
