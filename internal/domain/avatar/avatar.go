package avatar

// Avatar is a static catalog entry, customization is the only part
// mutated after seeding.
type Avatar struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	ImagePath   string `json:"image_path" bson:"image_path"`

	Health   int `json:"health" bson:"health"`
	Strength int `json:"strength" bson:"strength"`
	Speed    int `json:"speed" bson:"speed"`
	Defense  int `json:"defense" bson:"defense"`

	IdleAnimation    string `json:"idle_animation,omitempty" bson:"idle_animation,omitempty"`
	PunchAnimation   string `json:"punch_animation,omitempty" bson:"punch_animation,omitempty"`
	BlockAnimation   string `json:"block_animation,omitempty" bson:"block_animation,omitempty"`
	HitAnimation     string `json:"hit_animation,omitempty" bson:"hit_animation,omitempty"`
	VictoryAnimation string `json:"victory_animation,omitempty" bson:"victory_animation,omitempty"`
	DefeatAnimation  string `json:"defeat_animation,omitempty" bson:"defeat_animation,omitempty"`

	Customization *Customization `json:"customization,omitempty" bson:"customization,omitempty"`
}

// Customization is overwritten wholesale on every save.
type Customization struct {
	Color       string   `json:"color" bson:"color"`
	Accessories []string `json:"accessories" bson:"accessories"`
	Animation   string   `json:"animation" bson:"animation"`
}
