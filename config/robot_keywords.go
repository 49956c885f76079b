package config

// DefaultRobotKeywords is the curated list of keywords that mark a
// component as robot content. Matching is case-insensitive against the
// component name and category, and Latin keywords must start a word.
// Brands that also sell sensors, drives or motorcycles are qualified.
// Override with QUOTE_ROBOT_KEYWORDS.
var DefaultRobotKeywords = []string{
	// generic
	"robot",
	"cobot",
	"manipulator",
	"רובוט",
	"קובוט",
	"זרוע רובוטית",
	"מניפולטור",
	// brands
	"fanuc",
	"kuka",
	"yaskawa",
	"motoman",
	"abb irb",
	"universal robots",
	"ur3e",
	"ur5e",
	"ur10e",
	"ur16e",
	"ur20",
	"ur30",
	"staubli",
	"stäubli",
	"kawasaki robot",
	"denso robot",
	"denso cobotta",
	"epson scara",
	"nachi",
	"comau",
	"techman",
	"doosan robotics",
	"פאנוק",
	"קוקה",
}
