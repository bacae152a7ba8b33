package seed

import (
	"fmt"
	"log"

	"adotapet/internal/models"

	"gorm.io/gorm"
)

// DemoData populates the database with a small, browsable data set: users,
// publications with likes and comments, and animal listings. Counters are
// written to match the actual child rows so the data set starts reconciled.
func DemoData(db *gorm.DB) error {
	factory := NewFactory(db)

	users := make([]*models.User, 0, 10)
	for i := 0; i < 10; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}

	for _, user := range users {
		for i := 0; i < 2; i++ {
			publication, err := factory.CreatePublication(user)
			if err != nil {
				return fmt.Errorf("seed publication: %w", err)
			}

			likes := 0
			comments := 0
			for _, other := range users {
				if other.ID == user.ID {
					continue
				}
				if factory.rnd.Intn(3) == 0 {
					like := models.PublicationLike{PublicationID: publication.ID, UserID: other.ID}
					if err := db.Create(&like).Error; err != nil {
						return fmt.Errorf("seed like: %w", err)
					}
					likes++
				}
				if factory.rnd.Intn(4) == 0 {
					if _, err := factory.CreateComment(publication, other); err != nil {
						return fmt.Errorf("seed comment: %w", err)
					}
					comments++
				}
			}

			if err := db.Model(publication).Updates(map[string]any{
				"likes":    likes,
				"comments": comments,
			}).Error; err != nil {
				return fmt.Errorf("seed counters: %w", err)
			}
		}

		if user.UserType == models.UserTypeShelter {
			for i := 0; i < 3; i++ {
				if _, err := factory.CreateAnimal(user); err != nil {
					return fmt.Errorf("seed animal: %w", err)
				}
			}
		}
	}

	log.Printf("seeded %d users with publications, likes, comments and animals", len(users))
	return nil
}
