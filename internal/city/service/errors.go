package service

import "Civitas/modules/kit/errx"

const (
	CodeCityNotFound         errx.Code = "CITY_NOT_FOUND"
	CodePlotNotWorkable      errx.Code = "PLOT_NOT_WORKABLE"
	CodeSpecialistSlotFull   errx.Code = "SPECIALIST_SLOT_FULL"
	CodeNoSpecialistToRemove errx.Code = "SPECIALIST_NOT_ASSIGNED"
	CodeBuildingMissing      errx.Code = "BUILDING_MISSING"
	CodeInvalidFocus         errx.Code = "INVALID_FOCUS"
	CodeCityLoadFailed       errx.Code = "CITY_LOAD_FAILED"
)

var (
	ErrCityNotFound         = errx.NewBiz(CodeCityNotFound, "城市不存在")
	ErrPlotNotWorkable      = errx.NewBiz(CodePlotNotWorkable, "该地块无法耕作")
	ErrSpecialistSlotFull   = errx.NewBiz(CodeSpecialistSlotFull, "建筑专家槽位已满或没有可调配的市民")
	ErrNoSpecialistToRemove = errx.NewBiz(CodeNoSpecialistToRemove, "建筑里没有可撤下的专家")
	ErrBuildingMissing      = errx.NewBiz(CodeBuildingMissing, "城市没有该建筑")
	ErrInvalidFocus         = errx.NewBiz(CodeInvalidFocus, "无效的城市侧重")
	ErrCityLoadFailed       = errx.NewSys(CodeCityLoadFailed, "城市数据加载失败")
)
