package model

import "github.com/google/uuid"

// ContainerPreset is a reusable container definition.
type ContainerPreset struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Length int    `json:"length"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// NewContainerPreset creates a new ContainerPreset with a generated ID.
func NewContainerPreset(name string, l, w, h int) ContainerPreset {
	return ContainerPreset{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Length: l,
		Width:  w,
		Height: h,
	}
}

// ToContainer converts the preset into a Container.
func (cp ContainerPreset) ToContainer() Container {
	return Container{Length: cp.Length, Width: cp.Width, Height: cp.Height}
}

// Inventory holds the user's saved container presets.
type Inventory struct {
	Containers []ContainerPreset `json:"containers"`
}

// DefaultInventory returns an inventory populated with common defaults.
// Inner dimensions in mm.
func DefaultInventory() Inventory {
	return Inventory{
		Containers: []ContainerPreset{
			NewContainerPreset("Order bin 1200x1200x1500", 1200, 1200, 1500),
			NewContainerPreset("Euro pallet load 1200x800x1500", 1200, 800, 1500),
			NewContainerPreset("ISO 20ft", 5898, 2352, 2393),
			NewContainerPreset("ISO 40ft", 12032, 2352, 2393),
			NewContainerPreset("ISO 40ft High Cube", 12032, 2352, 2698),
		},
	}
}

// FindContainerByID returns a pointer to the preset with the given ID, or nil.
func (inv *Inventory) FindContainerByID(id string) *ContainerPreset {
	for i := range inv.Containers {
		if inv.Containers[i].ID == id {
			return &inv.Containers[i]
		}
	}
	return nil
}

// FindContainerByName returns a pointer to the first preset with the given name, or nil.
func (inv *Inventory) FindContainerByName(name string) *ContainerPreset {
	for i := range inv.Containers {
		if inv.Containers[i].Name == name {
			return &inv.Containers[i]
		}
	}
	return nil
}

// ContainerNames returns the preset names in inventory order.
func (inv *Inventory) ContainerNames() []string {
	names := make([]string, len(inv.Containers))
	for i, c := range inv.Containers {
		names[i] = c.Name
	}
	return names
}
