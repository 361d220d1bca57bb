package handler

import (
	"net/http"
	"strconv"

	"wasteloop/internal/contract"
	"wasteloop/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type NegotiationService interface {
	Create(req *contract.CreateNegotiationRequest) (*contract.NegotiationResponse, apierror.ErrorResponse)
	SetStatus(negotiationID, actingCompanyID int64, req *contract.SetStatusRequest) (*contract.NegotiationResponse, apierror.ErrorResponse)
	EditOffer(negotiationID, actingCompanyID int64, req *contract.EditOfferRequest) (*contract.NegotiationResponse, apierror.ErrorResponse)
	SendMessage(negotiationID, senderID int64, req *contract.SendMessageRequest) (*contract.NegotiationResponse, apierror.ErrorResponse)
	GetByID(negotiationID int64) (*contract.NegotiationResponse, apierror.ErrorResponse)
	ListForCompany(companyID int64) (*contract.NegotiationListResponse, apierror.ErrorResponse)
}

type DefaultNegotiationRoute struct {
	NegotiationService NegotiationService
}

func NewNegotiationDefault(negotiationService NegotiationService) *DefaultNegotiationRoute {
	return &DefaultNegotiationRoute{NegotiationService: negotiationService}
}

func (n *DefaultNegotiationRoute) CreateNegotiation(c echo.Context) error {
	var req contract.CreateNegotiationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	negotiation, apierr := n.NegotiationService.Create(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, negotiation)
}

func (n *DefaultNegotiationRoute) GetNegotiation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	negotiation, apierr := n.NegotiationService.GetByID(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, negotiation)
}

func (n *DefaultNegotiationRoute) ListNegotiations(c echo.Context) error {
	companyID, err := strconv.ParseInt(c.QueryParam("company_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("company_id", "int64"))
	}

	negotiations, apierr := n.NegotiationService.ListForCompany(companyID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, negotiations)
}

func (n *DefaultNegotiationRoute) SetStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	var req contract.SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	negotiation, apierr := n.NegotiationService.SetStatus(id, req.ActingCompanyID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, negotiation)
}

func (n *DefaultNegotiationRoute) EditOffer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	var req contract.EditOfferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	negotiation, apierr := n.NegotiationService.EditOffer(id, req.ActingCompanyID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, negotiation)
}

func (n *DefaultNegotiationRoute) SendMessage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	var req contract.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	negotiation, apierr := n.NegotiationService.SendMessage(id, req.SenderID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, negotiation)
}

func parseID(c echo.Context, param string) (int64, error) {
	return strconv.ParseInt(c.Param(param), 10, 64)
}
