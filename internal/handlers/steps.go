package handlers

import (
	"gorm.io/gorm"

	"tastebook/models"
)

// createSteps inserts a recipe's instructions in order. Runs inside the
// transaction that created or edited the recipe.
func createSteps(tx *gorm.DB, recipeID uint, contents []string) ([]models.Step, error) {
	steps := make([]models.Step, 0, len(contents))
	for i, content := range contents {
		step := models.Step{
			RecipeID: recipeID,
			Position: i + 1,
			Content:  content,
		}
		if err := tx.Create(&step).Error; err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// replaceSteps swaps a recipe's instruction list for a new one. The old rows
// are removed outright so they never pile up under the recipe.
func replaceSteps(tx *gorm.DB, recipeID uint, contents []string) ([]models.Step, error) {
	if err := tx.Unscoped().Where("recipe_id = ?", recipeID).Delete(&models.Step{}).Error; err != nil {
		return nil, err
	}
	return createSteps(tx, recipeID, contents)
}
