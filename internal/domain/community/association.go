package community

import (
	"strings"

	"github.com/Robi000/CMS/internal/domain/shared"
)

// Association is the tenancy root. Every household, ledger account,
// invoice and event belongs to exactly one association.
type Association struct {
	shared.BaseAggregateRoot
	Place               string
	BuildingNumberStart int
	BuildingNumberEnd   int
}

// NewAssociation creates an association covering a contiguous range of
// building numbers at one place.
func NewAssociation(place string, buildingStart, buildingEnd int) (*Association, error) {
	if strings.TrimSpace(place) == "" {
		return nil, shared.NewDomainError("INVALID_PLACE", "Association place cannot be empty")
	}
	if buildingStart <= 0 || buildingEnd < buildingStart {
		return nil, shared.NewDomainError("INVALID_BUILDING_RANGE", "Building number range is invalid")
	}

	return &Association{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Place:               place,
		BuildingNumberStart: buildingStart,
		BuildingNumberEnd:   buildingEnd,
	}, nil
}

// ContainsBuilding reports whether a building number falls inside the
// association's range.
func (a *Association) ContainsBuilding(buildingNo int) bool {
	return buildingNo >= a.BuildingNumberStart && buildingNo <= a.BuildingNumberEnd
}
