// ABOUTME: Static catalogs of job categories and skills
// ABOUTME: Backs the selection controls in posting and profile forms

package jobs

// jobCategories lists the categories offered when publishing a proposal.
var jobCategories = []string{
	"Desarrollo Web",
	"Desarrollo Móvil",
	"Diseño Gráfico",
	"Diseño UX/UI",
	"Marketing Digital",
	"Redacción y Traducción",
	"Video y Animación",
	"Soporte Técnico",
}

// skillsList lists the skills selectable for proposals and profiles.
var skillsList = []string{
	"React",
	"Node.js",
	"TypeScript",
	"Go",
	"Python",
	"Figma",
	"Photoshop",
	"Illustrator",
	"SEO",
	"WordPress",
	"Copywriting",
	"After Effects",
}

// Categories returns the available job categories.
func Categories() []string {
	return append([]string(nil), jobCategories...)
}

// Skills returns the selectable skills.
func Skills() []string {
	return append([]string(nil), skillsList...)
}
