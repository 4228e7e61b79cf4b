package bootstrap

import (
	"log"

	"gorm.io/gorm"
	"refillmap.com/gamification/internal/model"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Profile{},
		&model.ActivityEvent{},
		&model.Achievement{},
		&model.UserAchievement{},
	)
}

// SeedAchievements installs the default catalog. Existing entries are left
// untouched, so redeploys never reset thresholds or rewards.
func SeedAchievements(db *gorm.DB) error {
	catalog := []model.Achievement{
		{Name: "First Drop", Description: "Log your first water bottle refill", AchievementType: model.AchievementRefillsLogged, RequiredValue: 1, PointsReward: 10, Icon: "droplet"},
		{Name: "Hydration Habit", Description: "Log 25 refills", AchievementType: model.AchievementRefillsLogged, RequiredValue: 25, PointsReward: 50, Icon: "waves"},
		{Name: "Refill Master", Description: "Log 100 refills", AchievementType: model.AchievementRefillsLogged, RequiredValue: 100, PointsReward: 150, Icon: "trophy"},
		{Name: "Pioneer", Description: "Add your first refill station to the map", AchievementType: model.AchievementStationsAdded, RequiredValue: 1, PointsReward: 25, Icon: "sprout"},
		{Name: "Station Scout", Description: "Add 3 refill stations", AchievementType: model.AchievementStationsAdded, RequiredValue: 3, PointsReward: 100, Icon: "map-pin"},
		{Name: "Cartographer", Description: "Add 10 refill stations", AchievementType: model.AchievementStationsAdded, RequiredValue: 10, PointsReward: 250, Icon: "map-pin"},
		{Name: "First Impressions", Description: "Write your first station review", AchievementType: model.AchievementReviewsAdded, RequiredValue: 1, PointsReward: 15, Icon: "star"},
		{Name: "Trusted Reviewer", Description: "Write 10 station reviews", AchievementType: model.AchievementReviewsAdded, RequiredValue: 10, PointsReward: 75, Icon: "star"},
		{Name: "Point Collector", Description: "Earn 500 points", AchievementType: model.AchievementTotalPoints, RequiredValue: 500, PointsReward: 50, Icon: "medal"},
		{Name: "Point Hoarder", Description: "Earn 2500 points", AchievementType: model.AchievementTotalPoints, RequiredValue: 2500, PointsReward: 100, Icon: "medal"},
	}

	for _, achievement := range catalog {
		var count int64
		if err := db.Model(&model.Achievement{}).
			Where("name = ?", achievement.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&achievement).Error; err != nil {
				return err
			}
			log.Printf("seeded achievement %q", achievement.Name)
		}
	}

	return nil
}
