package actors

import (
	"Civitas/internal/city/service"
	"Civitas/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type CityHandler struct{}

var CH = &CityHandler{}

// PlotChange 锁定地块的结果，Changed=false 表示状态本来如此。
type PlotChange struct {
	Changed bool             `json:"changed"`
	City    service.CityInfo `json:"city"`
}

// PopulationChange Applied 是实际生效的人口变化（人口不低于 1）。
type PopulationChange struct {
	Applied int              `json:"applied"`
	City    service.CityInfo `json:"city"`
}

func (h *CityHandler) HandleGetCity(_ actor.Context, c *CityActor, _ messages.GetCity) (any, error) {
	return service.CS.Info(c.Entity()), nil
}

func (h *CityHandler) HandleRunTurn(_ actor.Context, c *CityActor, req messages.RunTurn) (any, error) {
	res := service.CS.RunTurn(c.Entity(), req.Turn, req.Strategy)
	c.flush()
	return res, nil
}

func (h *CityHandler) HandleForcePlot(_ actor.Context, c *CityActor, req messages.ForcePlot) (any, error) {
	changed, err := service.CS.ForcePlot(c.Entity(), req.Location, req.Force)
	if err != nil {
		return nil, err
	}
	return PlotChange{Changed: changed, City: service.CS.Info(c.Entity())}, nil
}

func (h *CityHandler) HandleAlterPlot(_ actor.Context, c *CityActor, req messages.AlterPlot) (any, error) {
	if err := service.CS.AlterPlot(c.Entity(), req.Location); err != nil {
		return nil, err
	}
	return service.CS.Info(c.Entity()), nil
}

func (h *CityHandler) HandleSetFocus(_ actor.Context, c *CityActor, req messages.SetFocus) (any, error) {
	if err := service.CS.SetFocus(c.Entity(), req.Policy); err != nil {
		return nil, err
	}
	return service.CS.Info(c.Entity()), nil
}

func (h *CityHandler) HandleChangeSpecialist(_ actor.Context, c *CityActor, req messages.ChangeSpecialist) (any, error) {
	if err := service.CS.ChangeSpecialist(c.Entity(), req.Building, req.Add, req.Forced); err != nil {
		return nil, err
	}
	return service.CS.Info(c.Entity()), nil
}

func (h *CityHandler) HandleChangePopulation(_ actor.Context, c *CityActor, req messages.ChangePopulation) (any, error) {
	applied, err := service.CS.ChangePopulation(c.Entity(), req.Delta)
	if err != nil {
		return nil, err
	}
	return PopulationChange{Applied: applied, City: service.CS.Info(c.Entity())}, nil
}

func (h *CityHandler) HandleSetBuilding(_ actor.Context, c *CityActor, req messages.SetBuilding) (any, error) {
	if err := service.CS.SetBuilding(c.Entity(), req.Building, req.Has); err != nil {
		return nil, err
	}
	return service.CS.Info(c.Entity()), nil
}

func (h *CityHandler) HandleUpdateTuning(_ actor.Context, c *CityActor, req messages.UpdateTuning) (any, error) {
	c.tuning = req.Tuning
	service.CS.UpdateTuning(c.Entity(), req.Tuning)
	return nil, nil
}
