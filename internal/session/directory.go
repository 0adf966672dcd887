package session

import (
	"sort"
	"sync"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

const avatarQuery = "?auto=compress&cs=tinysrgb&w=150&h=150&dpr=1"

func strPtr(s string) *string { return &s }

// Directory is the fixed set of identities that may log in, keyed by email.
type Directory struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Identity
}

// NewDirectory returns the built-in staff and patient accounts.
func NewDirectory() *Directory {
	d := &Directory{byEmail: make(map[string]domain.Identity)}

	d.Add(domain.Identity{
		ID:         "1",
		Email:      "doctor@medops.com",
		Name:       "Dr. Sarah Johnson",
		Role:       domain.RoleClinician,
		Department: strPtr("Cardiology"),
		Avatar:     "https://images.pexels.com/photos/559455/pexels-photo-559455.jpeg" + avatarQuery,
	})
	d.Add(domain.Identity{
		ID:         "2",
		Email:      "nurse@medops.com",
		Name:       "Emily Chen",
		Role:       domain.RoleNurse,
		Department: strPtr("Emergency"),
		Avatar:     "https://images.pexels.com/photos/1239291/pexels-photo-1239291.jpeg" + avatarQuery,
	})
	d.Add(domain.Identity{
		ID:         "3",
		Email:      "admin@medops.com",
		Name:       "Michael Rodriguez",
		Role:       domain.RoleAdministrator,
		Department: strPtr("Administration"),
		Avatar:     "https://images.pexels.com/photos/1043471/pexels-photo-1043471.jpeg" + avatarQuery,
	})
	d.Add(domain.Identity{
		ID:     "4",
		Email:  "patient@medops.com",
		Name:   "Jennifer Wilson",
		Role:   domain.RolePatient,
		Avatar: "https://images.pexels.com/photos/1181690/pexels-photo-1181690.jpeg" + avatarQuery,
	})

	return d
}

// Add registers or replaces an identity.
func (d *Directory) Add(id domain.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byEmail[id.Email] = id.Clone()
}

// Lookup matches email exactly, case included.
func (d *Directory) Lookup(email string) (domain.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byEmail[email]
	if !ok {
		return domain.Identity{}, false
	}
	return id.Clone(), true
}

// List returns every identity ordered by id.
func (d *Directory) List() []domain.Identity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Identity, 0, len(d.byEmail))
	for _, id := range d.byEmail {
		out = append(out, id.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
