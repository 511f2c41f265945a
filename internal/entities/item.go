package entities

// Slot names an equipment slot on a character
type Slot string

// Equipment slots
const (
	SlotMainHand Slot = "mainhand"
	SlotOffHand  Slot = "offhand"
	SlotHelmet   Slot = "helmet"
	SlotChest    Slot = "chest"
	SlotGloves   Slot = "gloves"
	SlotBoots    Slot = "boots"
	SlotCape     Slot = "cape"
	SlotHead     Slot = "head"
	SlotLegs     Slot = "legs"
	SlotRing1    Slot = "ring1"
	SlotRing2    Slot = "ring2"
	SlotRing3    Slot = "ring3"
	SlotRing4    Slot = "ring4"
	SlotAmulet   Slot = "amulet"
	SlotBelt     Slot = "belt"
	SlotArtifact Slot = "artifact"
)

// RingSlots lists the four ring slots in fill order
var RingSlots = []Slot{SlotRing1, SlotRing2, SlotRing3, SlotRing4}

// ItemType is the closed set of item categories
type ItemType string

// Item types
const (
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeShield     ItemType = "shield"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeAccessory  ItemType = "accessory"
	ItemTypeConsumable ItemType = "consumable"
)

// ArmorSlot is the sub-slot of an armor piece
type ArmorSlot string

// Armor sub-slots
const (
	ArmorSlotHelmet ArmorSlot = "helmet"
	ArmorSlotChest  ArmorSlot = "chest"
	ArmorSlotGloves ArmorSlot = "gloves"
	ArmorSlotBoots  ArmorSlot = "boots"
	ArmorSlotCape   ArmorSlot = "cape"
	ArmorSlotHead   ArmorSlot = "head"
	ArmorSlotLegs   ArmorSlot = "legs"
)

// AccessorySlot is the sub-slot of an accessory
type AccessorySlot string

// Accessory sub-slots
const (
	AccessorySlotRing     AccessorySlot = "ring"
	AccessorySlotAmulet   AccessorySlot = "amulet"
	AccessorySlotBelt     AccessorySlot = "belt"
	AccessorySlotArtifact AccessorySlot = "artifact"
)

// ItemEffect is what a consumable does when used
type ItemEffect struct {
	HealHP        int        `json:"healHp,omitempty"`
	HealMana      int        `json:"healMana,omitempty"`
	BuffKind      EffectKind `json:"buffKind,omitempty"`
	Magnitude     float64    `json:"magnitude,omitempty"`
	DurationTurns int        `json:"durationTurns,omitempty"`
}

// ItemDef is an immutable catalog item definition. Type plus the matching
// sub-slot field form the tagged variant the slot resolver switches on.
type ItemDef struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          ItemType      `json:"type"`
	ArmorSlot     ArmorSlot     `json:"armorSlot,omitempty"`
	AccessorySlot AccessorySlot `json:"accessorySlot,omitempty"`
	StatBonus     Stats         `json:"statBonus,omitempty"`
	Effect        *ItemEffect   `json:"effect,omitempty"`
	Price         int           `json:"price,omitempty"`
}

// Consumable reports whether the item is consumed on use
func (d *ItemDef) Consumable() bool {
	return d.Type == ItemTypeConsumable
}

// InventoryItem is one stack of an item owned by a character
type InventoryItem struct {
	ID               string `json:"id"`
	CharacterID      string `json:"characterId"`
	ItemID           string `json:"itemId"`
	Quantity         int    `json:"quantity"`
	Equipped         bool   `json:"equipped"`
	EquippedSlot     Slot   `json:"equippedSlot,omitempty"`
	EnhancementLevel int    `json:"enhancementLevel"`
	AcquiredAt       int64  `json:"acquiredAt"`
}
