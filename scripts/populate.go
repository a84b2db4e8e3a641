package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/kwiens/seeds/internal/config"
	"github.com/kwiens/seeds/internal/database"
	"github.com/kwiens/seeds/internal/images"
	"github.com/kwiens/seeds/internal/models"
	"github.com/kwiens/seeds/internal/policy"
	"github.com/kwiens/seeds/internal/services"
	"github.com/kwiens/seeds/internal/validation"
	"gorm.io/gorm"
)

const (
	botEmail        = "seedbot@seeds.example.com"
	botName         = "Seed Bot"
	supporterPrefix = "supporter-"
	supporterDomain = "@seeds.example.com"
	supporterCount  = 12
)

var people = []string{
	"Maria Gonzalez", "DeShawn Mitchell", "Sarah Chen", "James Whitfield",
	"Priya Patel", "Marcus Jones", "Carlos Rivera", "Aisha Williams",
	"David Kim", "Hannah Okafor", "Nadia Alvarez", "Omar Washington",
}

type sampleSeed struct {
	input   validation.SeedInput
	approve bool
}

func ptr[T any](v T) *T { return &v }

var samples = []sampleSeed{
	{approve: true, input: validation.SeedInput{
		Name:            "Elementary School to Greenway Stripe Route",
		Summary:         "A painted walking and biking route from the school entrance to the nearest greenway access point, so families have a visible way to get there.",
		Category:        models.CategoryDailyAccess,
		Gardeners:       []string{"Maria Gonzalez", "Sarah Chen"},
		Roots:           []models.RootEntry{{Name: "County Schools", Committed: true}, {Name: "Outdoor Club"}},
		WaterHave:       []string{"Existing sidewalks along most of the route", "Walking-bus volunteers"},
		WaterNeed:       []string{"Thermoplastic paint", "City permit for roadway markings"},
		LocationAddress: ptr("East Lake Elementary, Chattanooga, TN"),
		LocationLat:     ptr(35.0248),
		LocationLng:     ptr(-85.2648),
	}},
	{approve: true, input: validation.SeedInput{
		Name:            "Riverwalk Quarter-Mile Distance Markers",
		Summary:         "Small posts every quarter mile along the riverwalk so walkers and runners can track distance without an app.",
		Category:        models.CategoryDailyAccess,
		Gardeners:       []string{"James Whitfield"},
		Roots:           []models.RootEntry{{Name: "Parks Department"}},
		WaterHave:       []string{"Paved path with existing mile markers"},
		WaterNeed:       []string{"Post fabrication", "Installation day volunteers"},
		LocationAddress: ptr("Tennessee Riverwalk, Chattanooga, TN"),
		LocationLat:     ptr(35.0561),
		LocationLng:     ptr(-85.3106),
	}},
	{approve: true, input: validation.SeedInput{
		Name:            "Greenway Dirt Pump Track",
		Summary:         "A compact dirt pump track next to the greenway for kids on bikes and scooters, built and maintained with volunteer crews.",
		Category:        models.CategoryOutdoorPlay,
		Gardeners:       []string{"Carlos Rivera", "Aisha Williams"},
		Roots:           []models.RootEntry{{Name: "Mountain Bike Association", Committed: true}},
		SupportPeople:   []string{"Local bike shop mechanics"},
		WaterHave:       []string{"Flat unused parcel beside the trail"},
		WaterNeed:       []string{"Fill dirt", "Drainage design"},
		LocationAddress: ptr("South Chickamauga Creek Greenway, Chattanooga, TN"),
		LocationLat:     ptr(35.0301),
		LocationLng:     ptr(-85.2412),
	}},
	{approve: true, input: validation.SeedInput{
		Name:            "Pop-Up Traffic Garden in the Park",
		Summary:         "A temporary painted street grid where young kids learn to ride and cross safely, set up on a basketball court for a season.",
		Category:        models.CategoryOutdoorPlay,
		Gardeners:       []string{"Hannah Okafor"},
		WaterHave:       []string{"Court available on weekends"},
		WaterNeed:       []string{"Chalk paint", "Loaner bikes"},
		LocationAddress: ptr("Warner Park, Chattanooga, TN"),
		LocationLat:     ptr(35.0404),
		LocationLng:     ptr(-85.2811),
	}},
	{approve: true, input: validation.SeedInput{
		Name:      "Neighborhood Walking Group Kit",
		Summary:   "A lending kit with reflective vests, route cards and a first aid pouch so any neighbor can start a weekly walking group.",
		Category:  models.CategoryBalancedGrowth,
		Gardeners: []string{"Priya Patel", "David Kim"},
		Roots:     []models.RootEntry{{Name: "Public Library", Committed: true}},
		WaterNeed: []string{"Vests and pouches for ten kits"},
	}},
	{approve: true, input: validation.SeedInput{
		Name:            "Trail Etiquette Signs at Shared Paths",
		Summary:         "Friendly signs at busy shared paths reminding riders to pass on the left and call out, designed with local students.",
		Category:        models.CategoryRespect,
		Gardeners:       []string{"Marcus Jones"},
		WaterHave:       []string{"Student art club interested in designs"},
		WaterNeed:       []string{"Sign printing"},
		LocationAddress: ptr("Walnut Street Bridge, Chattanooga, TN"),
		LocationLat:     ptr(35.0592),
		LocationLng:     ptr(-85.3069),
	}},
	{approve: false, input: validation.SeedInput{
		Name:      "Community Bike Repair Stand at the Library",
		Summary:   "A public repair stand with tools and a pump outside the branch library, with a monthly fix-it day.",
		Category:  models.CategoryConnectedCommunities,
		Gardeners: []string{"Nadia Alvarez", "Omar Washington"},
		Roots:     []models.RootEntry{{Name: "Public Library"}},
		WaterNeed: []string{"Repair stand", "Mounting permission"},
	}},
}

func main() {
	clean := flag.Bool("clean", false, "Remove previously populated data first")
	cleanOnly := flag.Bool("clean-only", false, "Remove populated data and exit")
	withImages := flag.Bool("with-images", false, "Generate images for seeds without one")
	flag.Parse()

	_ = godotenv.Load()
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.InitDatabase(database.NewDatabaseConfig(conf))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	ctx := context.Background()

	if *clean || *cleanOnly {
		if err := cleanPopulated(ctx, db); err != nil {
			log.Fatal("Failed to clean populated data:", err)
		}
		fmt.Println("Clean complete.")
		if *cleanOnly {
			return
		}
	}

	// the bot is named on the static list for this run so the lifecycle accepts its approvals
	roster := services.NewAdminRosterService(db, []string{botEmail})
	users := services.NewUserService(db, roster)

	bot, err := users.ProvisionOnSignIn(ctx, botEmail, botName, nil)
	if err != nil {
		log.Fatal("Failed to provision seed bot:", err)
	}
	botActor := &policy.Actor{UserID: bot.ID, Role: bot.Role}
	fmt.Printf("Seed bot user: %s (role %s)\n", bot.ID, bot.Role)

	var supporters []*policy.Actor
	for i := 0; i < supporterCount; i++ {
		email := fmt.Sprintf("%s%d%s", supporterPrefix, i, supporterDomain)
		user, err := users.ProvisionOnSignIn(ctx, email, people[i%len(people)], nil)
		if err != nil {
			log.Fatal("Failed to provision supporter:", err)
		}
		supporters = append(supporters, &policy.Actor{UserID: user.ID, Role: user.Role})
	}
	fmt.Printf("Ensured %d supporter users exist.\n", len(supporters))

	seeds := services.NewSeedService(db)
	lifecycle := services.NewLifecycleService(db)
	supports := services.NewSupportService(db)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	inserted := 0
	for _, sample := range samples {
		var existing int64
		if err := db.Model(&models.Seed{}).
			Where("name = ? AND created_by = ?", sample.input.Name, bot.ID).
			Count(&existing).Error; err != nil {
			log.Fatal("Failed to check existing seed:", err)
		}
		if existing > 0 {
			continue
		}

		seed, err := seeds.CreateSeed(ctx, botActor, sample.input)
		if err != nil {
			log.Fatalf("Failed to create %q: %v", sample.input.Name, err)
		}
		if sample.approve {
			if err := lifecycle.ApproveSeed(ctx, botActor, seed.ID); err != nil {
				log.Fatalf("Failed to approve %q: %v", seed.Name, err)
			}
		}
		for _, supporter := range supporters[:rng.Intn(len(supporters)+1)] {
			if _, err := supports.ToggleSupport(ctx, supporter, seed.ID); err != nil {
				log.Fatalf("Failed to add support to %q: %v", seed.Name, err)
			}
		}
		inserted++
	}
	fmt.Printf("Inserted %d seeds.\n", inserted)

	if *withImages {
		generateImages(ctx, db, conf.Image, botActor)
	}
}

// cleanPopulated removes the bot, its seeds and the fake supporters.
// Approvals and supports go with their seeds through the cascade.
func cleanPopulated(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bot models.User
		err := tx.Where("email = ?", botEmail).Limit(1).Find(&bot).Error
		if err != nil {
			return err
		}
		if bot.ID == "" {
			return nil
		}

		var seedIDs []string
		if err := tx.Model(&models.Seed{}).Where("created_by = ?", bot.ID).Pluck("id", &seedIDs).Error; err != nil {
			return err
		}
		if len(seedIDs) > 0 {
			if err := tx.Where("seed_id IN ?", seedIDs).Delete(&models.SeedSupport{}).Error; err != nil {
				return err
			}
			if err := tx.Where("seed_id IN ?", seedIDs).Delete(&models.SeedApproval{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", seedIDs).Delete(&models.Seed{}).Error; err != nil {
				return err
			}
		}

		var supporterIDs []string
		if err := tx.Model(&models.User{}).Where("email LIKE ?", supporterPrefix+"%"+supporterDomain).Pluck("id", &supporterIDs).Error; err != nil {
			return err
		}
		if len(supporterIDs) > 0 {
			if err := tx.Where("user_id IN ?", supporterIDs).Delete(&models.SeedSupport{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", supporterIDs).Delete(&models.User{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", bot.ID).Delete(&models.User{}).Error
	})
}

func generateImages(ctx context.Context, db *gorm.DB, conf config.ImageConfig, botActor *policy.Actor) {
	if !conf.Enabled() {
		fmt.Println("Image generation is not configured, skipping images.")
		return
	}
	store, err := images.NewS3Store(ctx, images.S3Options{
		Endpoint:      conf.S3Endpoint,
		Region:        conf.S3Region,
		Bucket:        conf.S3Bucket,
		AccessKeyID:   conf.S3AccessKeyID,
		SecretKey:     conf.S3SecretKey,
		UsePathStyle:  conf.S3UsePathStyle,
		PublicBaseURL: conf.S3PublicBaseURL,
	})
	if err != nil {
		log.Fatal("Failed to set up image storage:", err)
	}
	generator, err := images.NewGeminiGenerator(ctx, conf.APIURL, conf.Model, conf.APIKey)
	if err != nil {
		log.Fatal("Failed to set up image generator:", err)
	}
	imageService := services.NewImageService(db, generator, store)

	var ids []string
	if err := db.Model(&models.Seed{}).
		Where("created_by = ? AND image_url IS NULL", botActor.UserID).
		Pluck("id", &ids).Error; err != nil {
		log.Fatal("Failed to list seeds without images:", err)
	}

	generated := 0
	for _, id := range ids {
		url, err := imageService.GenerateSeedImage(ctx, botActor, id)
		if err != nil {
			fmt.Printf("  image for %s failed: %v\n", id, err)
			continue
		}
		fmt.Printf("  %s -> %s\n", id, url)
		generated++
	}
	fmt.Printf("Generated %d of %d images.\n", generated, len(ids))
}
