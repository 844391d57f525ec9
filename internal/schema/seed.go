package schema

// SchemaVersion is the layout version stamped into schema_meta when a
// database is created. Opening a file recorded with any other version fails.
const SchemaVersion = 1

// SeedAttributes returns the seven character attributes in display order.
// IDs are assigned explicitly so the skill seed can reference them.
func SeedAttributes() []Attribute {
	return []Attribute{
		{ID: 1, Name: "Strength", Description: "Affects melee damage, fatigue, and encumbrance."},
		{ID: 2, Name: "Intelligence", Description: "Governs your total Magicka reserve."},
		{ID: 3, Name: "Willpower", Description: "Speeds Magicka regeneration and bolsters fatigue."},
		{ID: 4, Name: "Agility", Description: "Improves bow damage, balance, and fatigue."},
		{ID: 5, Name: "Speed", Description: "Determines movement rate and jump height."},
		{ID: 6, Name: "Endurance", Description: "Sets health gained per level and total fatigue."},
		{ID: 7, Name: "Personality", Description: "Sways how people react to you."},
	}
}

// SeedSkills returns the twenty-one skills with their governing attributes,
// display order, accelerator hints, and the default major set (the classic
// Warrior class). Hotkey is the rune index in Name to underline; letters are
// unique across the sheet, -1 where no free letter remains.
func SeedSkills() []Skill {
	return []Skill{
		{ID: 1, Name: "Blade", AttributeID: 1, Major: true, SortOrder: 10, Hotkey: 0, Description: "Long and short bladed weapons."},
		{ID: 2, Name: "Blunt", AttributeID: 1, Major: true, SortOrder: 20, Hotkey: 2, Description: "Maces, hammers, and axes."},
		{ID: 3, Name: "Hand to Hand", AttributeID: 1, Major: true, SortOrder: 30, Hotkey: 0, Description: "Unarmed striking and grappling."},
		{ID: 4, Name: "Alchemy", AttributeID: 2, Major: false, SortOrder: 40, Hotkey: 0, Description: "Brewing potions and poisons from ingredients."},
		{ID: 5, Name: "Conjuration", AttributeID: 2, Major: false, SortOrder: 50, Hotkey: 0, Description: "Summoning creatures and bound equipment."},
		{ID: 6, Name: "Mysticism", AttributeID: 2, Major: false, SortOrder: 60, Hotkey: 0, Description: "Soul trapping, detection, and spell absorption."},
		{ID: 7, Name: "Alteration", AttributeID: 3, Major: false, SortOrder: 70, Hotkey: 2, Description: "Shields, locks, and burdens of the physical world."},
		{ID: 8, Name: "Destruction", AttributeID: 3, Major: false, SortOrder: 80, Hotkey: 0, Description: "Fire, frost, and shock damage spells."},
		{ID: 9, Name: "Restoration", AttributeID: 3, Major: false, SortOrder: 90, Hotkey: 0, Description: "Healing, fortification, and resistances."},
		{ID: 10, Name: "Marksman", AttributeID: 4, Major: false, SortOrder: 100, Hotkey: 3, Description: "Bows and arrows."},
		{ID: 11, Name: "Security", AttributeID: 4, Major: false, SortOrder: 110, Hotkey: 0, Description: "Picking locks without a key."},
		{ID: 12, Name: "Sneak", AttributeID: 4, Major: false, SortOrder: 120, Hotkey: 1, Description: "Moving unseen and unheard."},
		{ID: 13, Name: "Acrobatics", AttributeID: 5, Major: false, SortOrder: 130, Hotkey: 3, Description: "Jumping, climbing, and falling safely."},
		{ID: 14, Name: "Athletics", AttributeID: 5, Major: true, SortOrder: 140, Hotkey: 4, Description: "Running and swimming speed."},
		{ID: 15, Name: "Light Armor", AttributeID: 5, Major: false, SortOrder: 150, Hotkey: 0, Description: "Moving and defending in light armors."},
		{ID: 16, Name: "Armorer", AttributeID: 6, Major: true, SortOrder: 160, Hotkey: 1, Description: "Repairing weapons and armor."},
		{ID: 17, Name: "Block", AttributeID: 6, Major: true, SortOrder: 170, Hotkey: -1, Description: "Deflecting blows with shield or weapon."},
		{ID: 18, Name: "Heavy Armor", AttributeID: 6, Major: true, SortOrder: 180, Hotkey: 3, Description: "Absorbing blows in heavy armors."},
		{ID: 19, Name: "Illusion", AttributeID: 7, Major: false, SortOrder: 190, Hotkey: 0, Description: "Charming, commanding, and concealing."},
		{ID: 20, Name: "Mercantile", AttributeID: 7, Major: false, SortOrder: 200, Hotkey: -1, Description: "Buying low and selling high."},
		{ID: 21, Name: "Speechcraft", AttributeID: 7, Major: false, SortOrder: 210, Hotkey: 1, Description: "Persuading and reading dispositions."},
	}
}
