package inmemdb

import (
	"github.com/trezcool/edutracker/core/journal"
)

func seedJournal() *journalTables {
	return &journalTables{
		subjects: []journal.Subject{
			{Name: "Mathematics 101", Code: "MATH101", Instructor: "Prof. Johnson", Semester: "Fall 2024"},
			{Name: "Physics Advanced", Code: "PHYS201", Instructor: "Prof. Wilson", Semester: "Fall 2024"},
			{Name: "Chemistry Basics", Code: "CHEM101", Instructor: "Prof. Davis", Semester: "Fall 2024"},
			{Name: "English Literature", Code: "ENG201", Instructor: "Prof. Brown", Semester: "Fall 2024"},
			{Name: "History Modern", Code: "HIST301", Instructor: "Prof. Miller", Semester: "Fall 2024"},
			{Name: "Biology Lab", Code: "BIO401", Instructor: "Prof. Garcia", Semester: "Fall 2024"},
		},
		entries: map[int][]journal.Entry{
			1: {
				{
					ID: 1, Subject: "Mathematics 101", Title: "Quadratic Equations and Real-World Applications",
					Date: date("2024-01-20"), WordCount: 245, Tags: []string{"algebra", "problem-solving", "applications"},
					Mood: "confident", Difficulty: "medium",
					Content: "Today we learned about quadratic equations and their applications in real-world problems. " +
						"I found it particularly interesting how parabolic motion in physics can be modeled using these equations. " +
						"The discriminant concept was initially confusing, but after working through several examples, " +
						"I can now determine the nature of roots without actually solving the equation.\n\n" +
						"Key insights:\n" +
						"- The vertex form makes graphing much easier\n" +
						"- Real-world applications include projectile motion and profit optimization\n" +
						"- Practice problems helped solidify my understanding\n\n" +
						"Areas to review: Complex number solutions when discriminant is negative.",
					LearningObjectives: []string{"Solve quadratic equations", "Apply to real-world scenarios", "Understand discriminant"},
					QuestionsRaised:    []string{"How do complex solutions relate to real-world problems?", "Are there other forms of quadratic equations?"},
				},
				{
					ID: 2, Subject: "Mathematics 101", Title: "Introduction to Derivatives",
					Date: date("2024-01-18"), WordCount: 312, Tags: []string{"calculus", "derivatives", "limits"},
					Mood: "excited", Difficulty: "challenging",
					Content: "First introduction to derivatives today. The concept of instantaneous rate of change is fascinating. " +
						"We started with the limit definition and worked our way to basic differentiation rules.\n\n" +
						"The geometric interpretation as the slope of a tangent line really helped me visualize what derivatives represent. " +
						"Practice with the power rule was straightforward, but I need more work on the product and quotient rules.\n\n" +
						"Professor Johnson's explanation using the velocity-position relationship was particularly helpful.",
					LearningObjectives: []string{"Understand derivative concept", "Apply basic differentiation rules", "Interpret geometrically"},
					QuestionsRaised:    []string{"How do derivatives apply in economics?", "What about derivatives of trigonometric functions?"},
				},
				{
					ID: 3, Subject: "Mathematics 101", Title: "Systems of Linear Equations",
					Date: date("2024-01-15"), WordCount: 198, Tags: []string{"linear-algebra", "systems", "matrices"},
					Mood: "curious", Difficulty: "easy",
					Content: "Learned three methods for solving systems of linear equations: substitution, elimination, and graphing. " +
						"The elimination method seems most efficient for larger systems.\n\n" +
						"Matrix representation was introduced briefly - looking forward to exploring this further. " +
						"The connection between graphical solutions and algebraic solutions is clearer now.",
					LearningObjectives: []string{"Solve systems using multiple methods", "Understand graphical interpretation"},
					QuestionsRaised:    []string{"When is each method most appropriate?", "How do matrices simplify the process?"},
				},
				{
					ID: 4, Subject: "Mathematics 101", Title: "Polynomial Functions and Graphs",
					Date: date("2024-01-12"), WordCount: 276, Tags: []string{"polynomials", "graphing", "functions"},
					Mood: "thoughtful", Difficulty: "medium",
					Content: "Deep dive into polynomial functions today. Understanding the relationship between degree and the shape of the graph was key. " +
						"Higher-degree polynomials have more complex behavior, but there are patterns to recognize.\n\n" +
						"End behavior is determined by the leading term, and zeros determine x-intercepts. " +
						"The intermediate value theorem guarantees that continuous functions take on all values between any two points.",
					LearningObjectives: []string{"Analyze polynomial behavior", "Sketch graphs", "Find zeros"},
					QuestionsRaised:    []string{"How do complex zeros affect real graphs?", "What about rational functions?"},
				},
				{
					ID: 5, Subject: "Physics Advanced", Title: "Electromagnetic Induction Experiment",
					Date: date("2024-01-19"), WordCount: 312, Tags: []string{"experiment", "electricity"}, Mood: "excited",
					Content: "Conducted experiment on electromagnetic induction today. Key findings include the relationship " +
						"between magnetic field strength and induced current...",
				},
				{
					ID: 6, Subject: "Chemistry Basics", Title: "Molecular Structures and Bonding",
					Date: date("2024-01-18"), WordCount: 189, Tags: []string{"molecules", "bonding"}, Mood: "curious",
					Content: "Study of molecular structures revealed fascinating patterns in how atoms bond to form compounds. " +
						"The concept of electron sharing in covalent bonds...",
				},
				{
					ID: 7, Subject: "English Literature", Title: "Analysis of Shakespeare's Hamlet",
					Date: date("2024-01-17"), WordCount: 428, Tags: []string{"shakespeare", "drama"}, Mood: "thoughtful",
					Content: "Reading Hamlet has been an incredible journey through complex themes of revenge, madness, " +
						"and moral ambiguity. The character development...",
				},
				{
					ID: 8, Subject: "History Modern", Title: "Industrial Revolution Impact",
					Date: date("2024-01-16"), WordCount: 356, Tags: []string{"history", "society"}, Mood: "reflective",
					Content: "The Industrial Revolution fundamentally changed society in ways that continue to impact us today. " +
						"The shift from agricultural to industrial...",
				},
			},
		},
	}
}

type journalRepository struct {
	db *journalTables
}

var _ journal.Repository = (*journalRepository)(nil) // interface compliance check

func NewJournalRepository(db *DB) journal.Repository {
	return &journalRepository{db: db.journal}
}

func (repo *journalRepository) QuerySubjects() ([]journal.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]journal.Subject(nil), repo.db.subjects...), nil
}

func (repo *journalRepository) QueryEntries(studentID int) ([]journal.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]journal.Entry(nil), repo.db.entries[studentID]...), nil
}
