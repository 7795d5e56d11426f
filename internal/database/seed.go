package database

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func SeedPlants(db *sqlx.DB) error {
	// Check if plants already exist
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM plants"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Plant catalog already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding plant catalog...")

	plants := []map[string]interface{}{
		{"common_name": "Ficus", "scientific_name": "Ficus benjamina", "watering_frequency_days": 7, "sunlight": "bright", "care_notes": "Dislikes being moved. Keep away from cold drafts."},
		{"common_name": "Snake Plant", "scientific_name": "Dracaena trifasciata", "watering_frequency_days": 14, "sunlight": "low", "care_notes": "Let soil dry out completely between waterings."},
		{"common_name": "Monstera", "scientific_name": "Monstera deliciosa", "watering_frequency_days": 7, "sunlight": "medium", "care_notes": "Wipe leaves monthly. Provide a moss pole for climbing."},
		{"common_name": "Pothos", "scientific_name": "Epipremnum aureum", "watering_frequency_days": 7, "sunlight": "low", "care_notes": "Very forgiving. Trim leggy vines to keep it full."},
		{"common_name": "Peace Lily", "scientific_name": "Spathiphyllum wallisii", "watering_frequency_days": 5, "sunlight": "low", "care_notes": "Droops dramatically when thirsty, recovers fast."},
		{"common_name": "Spider Plant", "scientific_name": "Chlorophytum comosum", "watering_frequency_days": 7, "sunlight": "medium", "care_notes": "Produces plantlets that can be propagated in water."},
		{"common_name": "Rubber Plant", "scientific_name": "Ficus elastica", "watering_frequency_days": 7, "sunlight": "bright", "care_notes": "Dust leaves to keep them glossy."},
		{"common_name": "ZZ Plant", "scientific_name": "Zamioculcas zamiifolia", "watering_frequency_days": 21, "sunlight": "low", "care_notes": "Tolerates neglect. Overwatering is the main killer."},
		{"common_name": "Aloe Vera", "scientific_name": "Aloe barbadensis", "watering_frequency_days": 14, "sunlight": "bright", "care_notes": "Needs a fast-draining succulent mix."},
		{"common_name": "Fiddle Leaf Fig", "scientific_name": "Ficus lyrata", "watering_frequency_days": 7, "sunlight": "bright", "care_notes": "Rotate a quarter turn weekly for even growth."},
	}

	for _, plant := range plants {
		id := uuid.New().String()
		_, err := db.Exec(`
			INSERT INTO plants (id, common_name, scientific_name, watering_frequency_days, sunlight, care_notes)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, plant["common_name"], plant["scientific_name"], plant["watering_frequency_days"], plant["sunlight"], plant["care_notes"])

		if err != nil {
			return err
		}
	}

	log.Printf("✓ Successfully seeded %d catalog plants", len(plants))
	return nil
}

func SeedUsers(db *sqlx.DB) error {
	// Check if users already exist
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding test users...")

	userPassword, err := bcrypt.GenerateFromPassword([]byte("plant123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []map[string]interface{}{
		{
			"id":       uuid.New().String(),
			"email":    "demo@plantpal.app",
			"password": string(userPassword),
			"name":     "Demo User",
			"role":     "user",
		},
		{
			"id":       uuid.New().String(),
			"email":    "admin@plantpal.app",
			"password": string(adminPassword),
			"name":     "Admin User",
			"role":     "admin",
		},
	}

	for _, user := range users {
		query := `
			INSERT INTO users (id, email, password, name, role)
			VALUES (:id, :email, :password, :name, :role)
		`
		if _, err := db.NamedExec(query, user); err != nil {
			return err
		}
		log.Printf("  ✓ Created user: %s (%s)", user["email"], user["role"])
	}

	log.Println("✓ Successfully seeded test users")
	log.Println("  📧 User:  demo@plantpal.app / plant123")
	log.Println("  📧 Admin: admin@plantpal.app / admin123")
	return nil
}
