package handler

import (
	"context"
	"net/http"

	"wasteloop/internal/contract"
	"wasteloop/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type MatchService interface {
	FindForResidue(ctx context.Context, residueID int64) (*contract.MatchListResponse, apierror.ErrorResponse)
	FindForNeed(ctx context.Context, needID int64) (*contract.MatchListResponse, apierror.ErrorResponse)
}

type DefaultMatchRoute struct {
	MatchService MatchService
}

func NewMatchDefault(matchService MatchService) *DefaultMatchRoute {
	return &DefaultMatchRoute{MatchService: matchService}
}

func (m *DefaultMatchRoute) FindMatches(c echo.Context) error {
	var req contract.MatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	ctx := c.Request().Context()

	var matches *contract.MatchListResponse
	var apierr apierror.ErrorResponse
	switch req.Kind {
	case contract.MatchKindSupplySeeksDemand:
		matches, apierr = m.MatchService.FindForResidue(ctx, req.SourceID)
	case contract.MatchKindDemandSeeksSupply:
		matches, apierr = m.MatchService.FindForNeed(ctx, req.SourceID)
	default:
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("kind", "supply-seeks-demand | demand-seeks-supply"))
	}

	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, matches)
}
