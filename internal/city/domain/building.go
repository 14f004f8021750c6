package domain

// BuildingType 可容纳专家的建筑，闭合枚举。
type BuildingType int8

const NoBuilding BuildingType = -1

const (
	BuildingLibrary BuildingType = iota
	BuildingUniversity
	BuildingMarket
	BuildingBank
	BuildingWorkshop
	BuildingFactory
	BuildingAmphitheater
	BuildingMuseum
	BuildingOperaHouse
	BuildingGuild

	NumBuildingTypes
)

var buildingNames = [NumBuildingTypes]string{
	"library", "university", "market", "bank", "workshop",
	"factory", "amphitheater", "museum", "opera_house", "guild",
}

func (b BuildingType) String() string {
	if b < 0 || b >= NumBuildingTypes {
		return "none"
	}
	return buildingNames[b]
}

func (b BuildingType) Valid() bool {
	return b >= 0 && b < NumBuildingTypes
}

func ParseBuildingType(s string) (BuildingType, bool) {
	for i, name := range buildingNames {
		if name == s {
			return BuildingType(i), true
		}
	}
	return NoBuilding, false
}

// SpecialistType 专家类型；Citizen 为默认（填充）专家。
type SpecialistType int8

const NoSpecialist SpecialistType = -1

const (
	SpecialistCitizen SpecialistType = iota
	SpecialistScientist
	SpecialistMerchant
	SpecialistEngineer
	SpecialistWriter
	SpecialistArtist
	SpecialistMusician

	NumSpecialistTypes
)

var specialistNames = [NumSpecialistTypes]string{
	"citizen", "scientist", "merchant", "engineer", "writer", "artist", "musician",
}

func (s SpecialistType) String() string {
	if s < 0 || s >= NumSpecialistTypes {
		return "none"
	}
	return specialistNames[s]
}

func ParseSpecialistType(s string) (SpecialistType, bool) {
	for i, name := range specialistNames {
		if name == s {
			return SpecialistType(i), true
		}
	}
	return NoSpecialist, false
}
