package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) Create(c *model.Category) error {
	return r.DB.Create(c).Error
}

func (r *CategoryRepository) Update(c *model.Category) error {
	return r.DB.Save(c).Error
}

func (r *CategoryRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Category{}, id).Error
}

func (r *CategoryRepository) FindByID(id uint) (*model.Category, error) {
	var c model.Category
	err := r.DB.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) List() ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.Order("id ASC").Find(&categories).Error
	return categories, err
}
