package common

import (
	"errors"
	"eventplanning/src/config"
	"eventplanning/src/db"
	"eventplanning/src/models"
	"eventplanning/src/types"
	"fmt"
	"time"

	"gorm.io/gorm"
)

func getTaskOrFail(tx *gorm.DB, id uint) (*models.Task, error) {
	var task models.Task
	if err := tx.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("task not found")
		}
		return nil, err
	}
	return &task, nil
}

// Only the event organizer manages tasks for that event.
func ensureTaskOrganizer(tx *gorm.DB, p types.Principal, eventID uint) (*models.Event, error) {
	event, err := GetEvent(tx, eventID)
	if err != nil {
		return nil, err
	}
	if !Allowed(p, ActionManageTasks, event.OrganizerID) {
		return nil, errors.New("only the organizer can manage tasks for this event")
	}
	return event, nil
}

func CreateTask(p types.Principal, body *types.TaskRequestBody) (*models.Task, error) {
	d := db.GetDb()
	if _, err := ensureTaskOrganizer(d, p, body.EventID); err != nil {
		return nil, err
	}
	task := models.Task{
		EventID:     body.EventID,
		Title:       body.Title,
		Description: body.Description,
		Status:      types.TASK_TODO,
	}
	if body.AssignedToUserID != nil {
		assignee, err := getUserOrFail(d, *body.AssignedToUserID)
		if err != nil {
			return nil, err
		}
		task.AssignedToID = &assignee.ID
	}
	if body.DueDate != nil {
		due, err := time.Parse(config.TIME_PARSE_FORMAT, *body.DueDate)
		if err != nil {
			return nil, BadRequestf("invalid due date: %s", err.Error())
		}
		task.DueDate = &due
	}
	if err := d.Create(&task).Error; err != nil {
		return nil, err
	}
	if task.AssignedToID != nil {
		go NotifyUser(*task.AssignedToID, &task.EventID, "Task assigned",
			fmt.Sprintf("You have been assigned: %s", task.Title),
			types.NOTIFICATION_TASK)
	}
	return &task, nil
}

func TasksByEvent(p types.Principal, eventID uint) ([]models.Task, error) {
	d := db.GetDb()
	if _, err := ensureTaskOrganizer(d, p, eventID); err != nil {
		return nil, err
	}
	var tasks []models.Task
	err := d.
		Where("event_id = ?", eventID).
		Preload("AssignedTo").
		Find(&tasks).
		Error
	return tasks, err
}

func MyTasks(p types.Principal) ([]models.Task, error) {
	d := db.GetDb()
	var tasks []models.Task
	err := d.
		Where("assigned_to_id = ?", p.ID).
		Preload("Event").
		Find(&tasks).
		Error
	return tasks, err
}

func AllTasks(p types.Principal) ([]models.Task, error) {
	if p.Role != types.ROLE_ADMIN {
		return nil, errors.New("not allowed to list all tasks")
	}
	d := db.GetDb()
	var tasks []models.Task
	err := d.Preload("Event").Preload("AssignedTo").Find(&tasks).Error
	return tasks, err
}

func SearchTasks(q string) ([]models.Task, error) {
	d := db.GetDb()
	like := "%" + q + "%"
	var tasks []models.Task
	err := d.
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like).
		Find(&tasks).
		Error
	return tasks, err
}

func UpdateTask(p types.Principal, id uint, body *types.TaskRequestBody) (*models.Task, error) {
	d := db.GetDb()
	task, err := getTaskOrFail(d, id)
	if err != nil {
		return nil, err
	}
	if _, err := ensureTaskOrganizer(d, p, task.EventID); err != nil {
		return nil, err
	}
	task.Title = body.Title
	task.Description = body.Description
	if body.AssignedToUserID != nil {
		assignee, err := getUserOrFail(d, *body.AssignedToUserID)
		if err != nil {
			return nil, err
		}
		task.AssignedToID = &assignee.ID
	}
	if body.DueDate != nil {
		due, err := time.Parse(config.TIME_PARSE_FORMAT, *body.DueDate)
		if err != nil {
			return nil, BadRequestf("invalid due date: %s", err.Error())
		}
		task.DueDate = &due
	}
	if err := d.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskStatus may be called by the assignee or the event organizer.
func UpdateTaskStatus(p types.Principal, id uint, status types.TaskStatus) (*models.Task, error) {
	d := db.GetDb()
	task, err := getTaskOrFail(d, id)
	if err != nil {
		return nil, err
	}
	isAssignee := task.AssignedToID != nil && *task.AssignedToID == p.ID
	if !isAssignee {
		if _, err := ensureTaskOrganizer(d, p, task.EventID); err != nil {
			return nil, err
		}
	}
	if err := d.Model(task).Update("status", status).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func DeleteTask(p types.Principal, id uint) error {
	d := db.GetDb()
	task, err := getTaskOrFail(d, id)
	if err != nil {
		return err
	}
	if _, err := ensureTaskOrganizer(d, p, task.EventID); err != nil {
		return err
	}
	return d.Delete(task).Error
}
