package handler

import (
	"net/http"

	"wasteloop/internal/contract"
	"wasteloop/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ListingService interface {
	CreateResidue(req *contract.ResidueRequest) (*contract.ResidueResponse, apierror.ErrorResponse)
	GetResidue(id int64) (*contract.ResidueResponse, apierror.ErrorResponse)
	ListActiveResidues() ([]*contract.ResidueResponse, apierror.ErrorResponse)
	CreateNeed(req *contract.NeedRequest) (*contract.NeedResponse, apierror.ErrorResponse)
	GetNeed(id int64) (*contract.NeedResponse, apierror.ErrorResponse)
	ListActiveNeeds() ([]*contract.NeedResponse, apierror.ErrorResponse)
	CreateCompany(req *contract.CompanyRequest) (*contract.CompanyResponse, apierror.ErrorResponse)
	GetCompany(id int64) (*contract.CompanyResponse, apierror.ErrorResponse)
}

type DefaultListingRoute struct {
	ListingService ListingService
}

func NewListingDefault(listingService ListingService) *DefaultListingRoute {
	return &DefaultListingRoute{ListingService: listingService}
}

func (l *DefaultListingRoute) CreateResidue(c echo.Context) error {
	var req contract.ResidueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	residue, apierr := l.ListingService.CreateResidue(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, residue)
}

func (l *DefaultListingRoute) GetResidue(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	residue, apierr := l.ListingService.GetResidue(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, residue)
}

func (l *DefaultListingRoute) ListResidues(c echo.Context) error {
	residues, apierr := l.ListingService.ListActiveResidues()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"residues": residues}
	return c.JSON(http.StatusOK, &resp)
}

func (l *DefaultListingRoute) CreateNeed(c echo.Context) error {
	var req contract.NeedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	need, apierr := l.ListingService.CreateNeed(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, need)
}

func (l *DefaultListingRoute) GetNeed(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	need, apierr := l.ListingService.GetNeed(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, need)
}

func (l *DefaultListingRoute) ListNeeds(c echo.Context) error {
	needs, apierr := l.ListingService.ListActiveNeeds()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"needs": needs}
	return c.JSON(http.StatusOK, &resp)
}

func (l *DefaultListingRoute) CreateCompany(c echo.Context) error {
	var req contract.CompanyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	company, apierr := l.ListingService.CreateCompany(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, company)
}

func (l *DefaultListingRoute) GetCompany(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	company, apierr := l.ListingService.GetCompany(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}
