package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pcparts-backend/internal/models"
)

var defaultItems = []models.InventoryItem{
	{Name: "Intel Core i9-13900K", Category: "CPU", Brand: "Intel", Price: 33000, Stock: 25, Description: "24-Core Desktop Processor"},
	{Name: "AMD Ryzen 9 7950X", Category: "CPU", Brand: "AMD", Price: 31000, Stock: 18, Description: "16-Core Desktop Processor"},
	{Name: "NVIDIA RTX 4090", Category: "GPU", Brand: "NVIDIA", Price: 90000, Stock: 12, Description: "24GB GDDR6X Graphics Card"},
	{Name: "AMD Radeon RX 7900 XTX", Category: "GPU", Brand: "AMD", Price: 56000, Stock: 15, Description: "24GB GDDR6 Graphics Card"},
	{Name: "Corsair Vengeance DDR5 32GB", Category: "RAM", Brand: "Corsair", Price: 7300, Stock: 45, Description: "6000MHz CL36 Memory Kit"},
	{Name: "G.Skill Trident Z5 64GB", Category: "RAM", Brand: "G.Skill", Price: 14000, Stock: 30, Description: "6400MHz CL32 Memory Kit"},
	{Name: "Samsung 990 Pro 2TB", Category: "Storage", Brand: "Samsung", Price: 10000, Stock: 40, Description: "NVMe M.2 SSD"},
	{Name: "WD Black SN850X 4TB", Category: "Storage", Brand: "Western Digital", Price: 18500, Stock: 22, Description: "NVMe M.2 SSD"},
	{Name: "ASUS ROG Strix B650-E", Category: "Motherboard", Brand: "ASUS", Price: 16800, Stock: 20, Description: "AMD AM5 ATX Motherboard"},
	{Name: "MSI MPG Z790 Carbon", Category: "Motherboard", Brand: "MSI", Price: 25200, Stock: 16, Description: "Intel LGA1700 ATX Motherboard"},
	{Name: "Corsair RM1000e", Category: "PSU", Brand: "Corsair", Price: 10100, Stock: 28, Description: "1000W 80+ Gold Modular PSU"},
	{Name: "NZXT H7 Flow", Category: "Case", Brand: "NZXT", Price: 7300, Stock: 35, Description: "Mid-Tower ATX Case"},
}

// Seed inserts the default users and inventory on first startup. It is a
// no-op when the admin user and inventory already exist.
func Seed(ctx context.Context, store Store, bcryptRounds int) error {
	_, err := store.FindUserByUsername(ctx, "admin")
	switch {
	case err == nil:
		// defaults already present
	case errors.Is(err, ErrNotFound):
		for _, u := range []struct {
			username, password, name, role string
		}{
			{"admin", "admin123", "Admin User", models.RoleEmployee},
			{"guest", "guest123", "Guest User", models.RoleGuest},
		} {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcryptRounds)
			if err != nil {
				return fmt.Errorf("failed to hash default password: %w", err)
			}
			user := &models.User{
				Username:  u.username,
				Password:  string(hash),
				Name:      u.name,
				Role:      u.role,
				CreatedAt: time.Now(),
			}
			if err := store.InsertUser(ctx, user); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.username, err)
			}
		}
	default:
		return fmt.Errorf("failed to check seed users: %w", err)
	}

	items, err := store.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to check seed inventory: %w", err)
	}
	if len(items) == 0 {
		for _, item := range defaultItems {
			item := item
			if err := store.InsertItem(ctx, &item); err != nil {
				return fmt.Errorf("failed to seed item %s: %w", item.Name, err)
			}
		}
	}
	return nil
}
