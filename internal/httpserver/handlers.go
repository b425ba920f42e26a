package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
	authsvc "storefront-api/internal/service/auth"
	cartsvc "storefront-api/internal/service/cart"
	ordersvc "storefront-api/internal/service/order"
	paymentsvc "storefront-api/internal/service/payment"
	productsvc "storefront-api/internal/service/product"
)

func registerHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in authsvc.RegisterInput
		if !bindJSON(c, &in) {
			return
		}
		profile, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			writeError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(*profile))
	}
}

func loginHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in authsvc.LoginInput
		if !bindJSON(c, &in) {
			return
		}
		profile, err := svc.Login(c.Request.Context(), in)
		if err != nil {
			writeError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(*profile))
	}
}

// Product endpoints answer 400 for failures that are neither validation nor
// not-found errors.

func createProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productsvc.CreateInput
		if !bindJSON(c, &in) {
			return
		}
		p, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func listProductsHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err, http.StatusBadRequest)
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func updateProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productsvc.UpdateInput
		if !bindJSON(c, &in) {
			return
		}
		p, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
	}
}

func addToCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.AddInput
		if !bindJSON(c, &in) {
			return
		}
		v, err := svc.AddToCart(c.Request.Context(), c.Param("user_id"), in)
		if err != nil {
			writeError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(*v))
	}
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := svc.GetCart(c.Request.Context(), c.Param("user_id"))
		if err != nil {
			writeError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(*v))
	}
}

func removeFromCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemoveFromCart(c.Request.Context(), c.Param("user_id"), c.Param("product_id")); err != nil {
			writeError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, messageResponse{Message: "Item removed from cart"})
	}
}

func createOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ordersvc.CreateInput
		if !bindJSON(c, &in) {
			return
		}
		v, err := svc.CreateOrder(c.Request.Context(), in)
		if err != nil {
			writeError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(*v))
	}
}

func listOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := svc.ListUserOrders(c.Request.Context(), c.Param("user_id"))
		if err != nil {
			writeError(c, err, http.StatusInternalServerError)
			return
		}
		resp := make([]orderResponse, 0, len(views))
		for _, v := range views {
			resp = append(resp, toOrderResponse(v))
		}
		c.JSON(http.StatusOK, resp)
	}
}

func processPaymentHandler(svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in paymentsvc.CreateInput
		if !bindJSON(c, &in) {
			return
		}
		p, err := svc.ProcessPayment(c.Request.Context(), in)
		if err != nil {
			writeError(c, err, http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
