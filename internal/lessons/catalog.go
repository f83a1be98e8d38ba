// Package lessons describes the lessons served by the application:
// the IDOR lessons with their resource kinds and the force browsing portals.
package lessons

import (
	"github.com/samber/lo"
	"github.com/securitylessons/backend/internal/access"
	"github.com/securitylessons/backend/internal/models"
)

// Kind is a resource type of an IDOR lesson
type Kind struct {
	// Name is the path segment of the kind ("booking")
	Name string
	// Label is the human name used by seed titles ("Booking")
	Label string
}

// Lesson is an IDOR lesson: two resource kinds exposed through secure and vulnerable endpoints
type Lesson struct {
	Name  string
	Title string
	Kinds []Kind
	// VulnCheck is the check the vulnerable endpoints perform while the lesson is unpatched
	VulnCheck access.VulnCheck
	// Policy guards the secure endpoints
	Policy access.Policy
}

// Kind returns the kind with the given name
func (l *Lesson) Kind(name string) (Kind, bool) {
	return lo.Find(l.Kinds, func(k Kind) bool { return k.Name == name })
}

var idorLessons = []*Lesson{
	{
		Name:      "booking",
		Title:     "Hotel bookings",
		Kinds:     []Kind{{Name: "booking", Label: "Booking"}, {Name: "payment", Label: "Payment"}},
		VulnCheck: access.CheckNone,
		Policy:    access.OwnerOnly,
	},
	{
		Name:      "grades",
		Title:     "Student grades",
		Kinds:     []Kind{{Name: "grade", Label: "Grade"}, {Name: "assignment", Label: "Assignment"}},
		VulnCheck: access.CheckNone,
		Policy:    access.OwnerOnly,
	},
	{
		Name:      "inventory",
		Title:     "Warehouse inventory",
		Kinds:     []Kind{{Name: "product", Label: "Product"}, {Name: "supply", Label: "Supply"}},
		VulnCheck: access.CheckNone,
		Policy:    access.OwnerOnly,
	},
	{
		Name:      "notes",
		Title:     "Personal notes",
		Kinds:     []Kind{{Name: "note", Label: "Note"}, {Name: "category", Label: "Category"}},
		VulnCheck: access.CheckNone,
		Policy:    access.OwnerOnly,
	},
	{
		Name:      "orders",
		Title:     "Shop orders",
		Kinds:     []Kind{{Name: "order", Label: "Order"}, {Name: "invoice", Label: "Invoice"}},
		VulnCheck: access.CheckNone,
		Policy:    access.OwnerOnly,
	},
	{
		Name:      "projects",
		Title:     "Project tracker",
		Kinds:     []Kind{{Name: "project", Label: "Project"}, {Name: "workitem", Label: "WorkItem"}},
		VulnCheck: access.CheckNone,
		Policy:    access.OwnerOr(models.RoleAdmin),
	},
	{
		Name:      "tickets",
		Title:     "Support tickets",
		Kinds:     []Kind{{Name: "ticket", Label: "Ticket"}, {Name: "message", Label: "Message"}},
		VulnCheck: access.CheckSession,
		Policy:    access.OwnerOr(models.RoleAdmin),
	},
	{
		Name:      "profiles",
		Title:     "User profiles",
		Kinds:     []Kind{{Name: "profile", Label: "Profile"}, {Name: "address", Label: "Address"}},
		VulnCheck: access.CheckRequestOwner,
		Policy:    access.OwnerOnly,
	},
}

// Lessons returns every IDOR lesson
func Lessons() []*Lesson {
	return idorLessons
}

// FindLesson returns the IDOR lesson with the given name
func FindLesson(name string) (*Lesson, bool) {
	return lo.Find(idorLessons, func(l *Lesson) bool { return l.Name == name })
}
