package citizens

// Tuning 分配器的可调参数，默认值即设计常量，可由配置覆盖。
type Tuning struct {
	FoodWeight       int `mapstructure:"food_weight" yaml:"food_weight" validate:"min=0"`
	ProductionWeight int `mapstructure:"production_weight" yaml:"production_weight" validate:"min=0"`
	GoldWeight       int `mapstructure:"gold_weight" yaml:"gold_weight" validate:"min=0"`
	ScienceWeight    int `mapstructure:"science_weight" yaml:"science_weight" validate:"min=0"`
	CultureWeight    int `mapstructure:"culture_weight" yaml:"culture_weight" validate:"min=0"`

	FocusMultiplier           int `mapstructure:"focus_multiplier" yaml:"focus_multiplier" validate:"min=1"`
	FoodGrowthFocusMultiplier int `mapstructure:"food_growth_focus_multiplier" yaml:"food_growth_focus_multiplier" validate:"min=1"`
	GrowthFocusFoodMultiplier int `mapstructure:"growth_focus_food_multiplier" yaml:"growth_focus_food_multiplier" validate:"min=1"`

	EnoughFoodSurplus         int `mapstructure:"enough_food_surplus" yaml:"enough_food_surplus"`
	EarlyGrowthPopulation     int `mapstructure:"early_growth_population" yaml:"early_growth_population" validate:"min=0"`
	EarlyGrowthFoodMultiplier int `mapstructure:"early_growth_food_multiplier" yaml:"early_growth_food_multiplier" validate:"min=1"`

	ForcedPlotBonus           int `mapstructure:"forced_plot_bonus" yaml:"forced_plot_bonus" validate:"min=1"`
	MaxSpecialistsPerBuilding int `mapstructure:"max_specialists_per_building" yaml:"max_specialists_per_building" validate:"min=0"`
	ExtraSlotBiasPercent      int `mapstructure:"extra_slot_bias_percent" yaml:"extra_slot_bias_percent" validate:"min=0"`

	GreatPersonPointWeight     int `mapstructure:"great_person_point_weight" yaml:"great_person_point_weight" validate:"min=0"`
	GreatPeopleFocusMultiplier int `mapstructure:"great_people_focus_multiplier" yaml:"great_people_focus_multiplier" validate:"min=1"`

	WantSpecialistBaseWeight int `mapstructure:"want_specialist_base_weight" yaml:"want_specialist_base_weight" validate:"min=1"`
	WantSpecialistThreshold  int `mapstructure:"want_specialist_threshold" yaml:"want_specialist_threshold" validate:"min=1"`
	FocusCapacityMultiplier  int `mapstructure:"focus_capacity_multiplier" yaml:"focus_capacity_multiplier" validate:"min=1"`

	BlockadeRadius int `mapstructure:"blockade_radius" yaml:"blockade_radius" validate:"min=0"`
}

func DefaultTuning() Tuning {
	return Tuning{
		FoodWeight:       12,
		ProductionWeight: 8,
		GoldWeight:       10,
		ScienceWeight:    6,
		CultureWeight:    8,

		FocusMultiplier:           4,
		FoodGrowthFocusMultiplier: 5,
		GrowthFocusFoodMultiplier: 2,

		EnoughFoodSurplus:         2,
		EarlyGrowthPopulation:     5,
		EarlyGrowthFoodMultiplier: 3,

		ForcedPlotBonus:           10000,
		MaxSpecialistsPerBuilding: 5,
		ExtraSlotBiasPercent:      10,

		GreatPersonPointWeight:     4,
		GreatPeopleFocusMultiplier: 3,

		WantSpecialistBaseWeight: 100,
		WantSpecialistThreshold:  150,
		FocusCapacityMultiplier:  3,

		BlockadeRadius: 2,
	}
}

// OrDefault 零值 Tuning（未配置 allocation 段）回退到默认值。
func (t Tuning) OrDefault() Tuning {
	if t == (Tuning{}) {
		return DefaultTuning()
	}
	return t
}
