package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/config"
	"github.com/kindredapp/kindred/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// seedProfile is one demo account with a complete dating profile
type seedProfile struct {
	name       string
	gender     model.Gender
	age        int
	bio        string
	city       string
	lat, lon   float64
	interests  []string
	lookingFor model.LookingFor
	ageMin     int
	ageMax     int
	distanceKm float64
}

var seedProfiles = []seedProfile{
	{"Linh", model.GenderFemale, 26, "Coffee addict, amateur photographer", "Ho Chi Minh City", 10.8231, 106.6297, []string{"photography", "coffee", "travel"}, model.LookingForMale, 24, 34, 50},
	{"Minh", model.GenderMale, 29, "Climber and weekend cook", "Ho Chi Minh City", 10.7769, 106.7009, []string{"climbing", "cooking", "movies"}, model.LookingForFemale, 22, 30, 50},
	{"An", model.GenderFemale, 24, "Bookworm, always up for live music", "Ho Chi Minh City", 10.8031, 106.6519, []string{"books", "music", "yoga"}, model.LookingForEveryone, 22, 32, 30},
	{"Huy", model.GenderMale, 31, "Runner, startup person, dog dad", "Ho Chi Minh City", 10.7626, 106.6602, []string{"running", "dogs", "tech"}, model.LookingForFemale, 25, 35, 40},
	{"Thao", model.GenderFemale, 28, "Designer who paints on weekends", "Hanoi", 21.0278, 105.8342, []string{"art", "design", "hiking"}, model.LookingForMale, 26, 36, 60},
	{"Duc", model.GenderMale, 27, "Guitarist looking for a concert buddy", "Hanoi", 21.0368, 105.8342, []string{"music", "guitar", "food"}, model.LookingForFemale, 23, 31, 50},
	{"Mai", model.GenderFemale, 30, "Chef. I will judge your pho order", "Da Nang", 16.0544, 108.2022, []string{"cooking", "beach", "travel"}, model.LookingForEveryone, 27, 40, 80},
	{"Khoa", model.GenderMale, 25, "Surfer when the waves allow", "Da Nang", 16.0678, 108.2208, []string{"surfing", "fitness", "photography"}, model.LookingForFemale, 21, 29, 60},
}

func main() {
	cfg := config.Load()

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	// Common password for all demo accounts
	password := "password123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	log.Printf("🌱 Seeding %d users with complete profiles...", len(seedProfiles))

	now := time.Now()
	var created []model.User

	for i, sp := range seedProfiles {
		email := fmt.Sprintf("%s%d@kindred.local", sp.name, i+1)

		var existing model.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			created = append(created, existing)
			continue
		}

		user := model.User{
			ID:           uuid.New(),
			Email:        email,
			Password:     string(hashedPassword),
			AuthProvider: model.AuthProviderEmail,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", email, err)
			continue
		}

		dob := now.AddDate(-sp.age, 0, -7)
		profile := model.Profile{
			UserID:              user.ID,
			Name:                sp.name,
			DateOfBirth:         dob,
			Age:                 model.AgeAt(dob, now),
			Gender:              sp.gender,
			Bio:                 sp.bio,
			Photos:              datatypes.JSONSlice[string]{fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s%d", sp.name, i+1)},
			City:                sp.city,
			Latitude:            sp.lat,
			Longitude:           sp.lon,
			Interests:           datatypes.JSONSlice[string](sp.interests),
			LookingFor:          sp.lookingFor,
			AgeMin:              sp.ageMin,
			AgeMax:              sp.ageMax,
			DistanceKm:          sp.distanceKm,
			ProfileComplete:     true,
			OnboardingCompleted: true,
			LastActiveAt:        now.Add(-time.Duration(i) * time.Hour),
		}
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&profile).Error; err != nil {
			log.Printf("❌ Failed to create profile for %s: %v", email, err)
			continue
		}

		created = append(created, user)
		log.Printf("✅ Created user: %s | Email: %s | Pass: %s", sp.name, email, password)
	}

	seedMatch(db, created)

	log.Println("🎉 Seeding completed!")
}

// seedMatch creates one mutual like, the resulting match, and a short
// conversation between the first two seeded users
func seedMatch(db *gorm.DB, users []model.User) {
	if len(users) < 2 {
		return
	}

	a, b := users[0], users[1]

	for _, pair := range [][2]uuid.UUID{{a.ID, b.ID}, {b.ID, a.ID}} {
		swipe := model.Swipe{UserID: pair[0], TargetID: pair[1], Action: model.SwipeActionLike}
		db.Clauses(clause.OnConflict{DoNothing: true}).Create(&swipe)
	}

	match := model.NewMatch(a.ID, b.ID)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(match).Error; err != nil {
		log.Printf("❌ Failed to create demo match: %v", err)
		return
	}

	var count int64
	db.Model(&model.Message{}).Where("match_id = ?", match.ID).Count(&count)
	if count > 0 {
		return
	}

	texts := []struct {
		from, to uuid.UUID
		text     string
	}{
		{a.ID, b.ID, "Hey! We matched 🎉"},
		{b.ID, a.ID, "Hi! Love your photos, where was the beach one taken?"},
		{a.ID, b.ID, "Da Nang last summer. Best trip ever"},
	}
	for i, t := range texts {
		msg := model.Message{
			ID:         uuid.New(),
			MatchID:    match.ID,
			SenderID:   t.from,
			ReceiverID: t.to,
			Text:       t.text,
			CreatedAt:  time.Now().Add(time.Duration(i-3) * time.Minute),
		}
		db.Create(&msg)
	}

	db.Model(&model.Match{}).Where("id = ?", match.ID).Updates(map[string]interface{}{
		"last_message_text":      texts[len(texts)-1].text,
		"last_message_sender_id": texts[len(texts)-1].from,
		"last_message_at":        time.Now(),
	})

	log.Printf("✅ Created demo match %s with a short conversation", match.ID)
}
