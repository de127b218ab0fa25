package handlers

import (
	"context"
	"errors"
	"log"

	"lexedit-backend/internal/lexedit/document"
	"lexedit-backend/internal/lexedit/history"
	"lexedit-backend/internal/lexedit/scene"
	"lexedit-backend/internal/lexedit/session"
	"lexedit-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EditorHandler struct {
	sessions *session.Manager
}

func NewEditorHandler(sessions *session.Manager) *EditorHandler {
	return &EditorHandler{sessions: sessions}
}

// stateResponse is what clients need to render a session.
func stateResponse(s *session.Session, d *document.Document) fiber.Map {
	return fiber.Map{
		"sessionId":      s.ID.String(),
		"currentPage":    d.CurrentPage(),
		"currentFace":    d.CurrentPage().String(),
		"view":           d.Canvas().View(),
		"sidePanel":      d.Canvas().SidePanel(),
		"history":        d.History().Triggers(),
		"vars":           d.Vars,
		"advEditAllowed": d.AdvEditAllowed(),
		"allowProof":     d.AllowProof(),
		"hasClipboard":   d.Clipboard() != nil,
		"currentProduct": d.CurrentProductID(),
	}
}

// withSession resolves :sessionId and runs fn under the session lock.
// editStatus maps a refused edit to 403 and anything else to 400.
func editStatus(err error) int {
	if errors.Is(err, scene.ErrNotEditable) || errors.Is(err, scene.ErrAdvancedOnly) {
		return fiber.StatusForbidden
	}
	return fiber.StatusBadRequest
}

func (h *EditorHandler) withSession(c *fiber.Ctx, fn func(s *session.Session, d *document.Document) error) error {
	id, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}
	return s.Do(func(d *document.Document) error {
		return fn(s, d)
	})
}

// withObject additionally resolves :key on the live face.
func (h *EditorHandler) withObject(c *fiber.Ctx, fn func(s *session.Session, d *document.Document, obj *models.SceneObject) error) error {
	key, err := uuid.Parse(c.Params("key"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid object key",
		})
	}
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		obj, ok := d.Canvas().GetObjectByKey(key)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Object not found",
			})
		}
		return fn(s, d, obj)
	})
}

// function to open an editing session for an order
func (h *EditorHandler) CreateSession(c *fiber.Ctx) error {
	var dto struct {
		OrderNumber     int64   `json:"orderNumber"`
		UserID          int64   `json:"userId"`
		SessionID       string  `json:"sessionId"`
		MembershipType  int     `json:"membershipType"`
		DefaultSide     string  `json:"defaultSide"`
		Advanced        bool    `json:"advanced"`
		MarketingSeries bool    `json:"marketingSeries"`
		ViewportWidth   float64 `json:"viewportWidth"`
		ViewportHeight  float64 `json:"viewportHeight"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if dto.OrderNumber <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order number",
		})
	}

	s, err := h.sessions.Open(c.UserContext(), session.OpenRequest{
		OrderNumber:     dto.OrderNumber,
		UserID:          dto.UserID,
		SessionID:       dto.SessionID,
		MembershipType:  dto.MembershipType,
		DefaultSide:     dto.DefaultSide,
		MarketingSeries: dto.MarketingSeries,
		Advanced:        dto.Advanced,
		ViewportWidth:   dto.ViewportWidth,
		ViewportHeight:  dto.ViewportHeight,
	})
	if err != nil {
		log.Println(err, "Error opening session")
		if errors.Is(err, document.ErrNoTemplateData) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "No Template Data",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to load order",
		})
	}

	return s.Do(func(d *document.Document) error {
		return c.Status(fiber.StatusCreated).JSON(stateResponse(s, d))
	})
}

func (h *EditorHandler) GetSession(c *fiber.Ctx) error {
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		return c.Status(fiber.StatusOK).JSON(stateResponse(s, d))
	})
}

func (h *EditorHandler) CloseSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}
	if err := h.sessions.Close(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Session closed",
	})
}

func (h *EditorHandler) AddObject(c *fiber.Ctx) error {
	obj := models.NewSceneObject()
	if err := c.BodyParser(obj); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid object",
		})
	}
	if obj.Variant() == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Object has no textbox, image, shape or coupon payload",
		})
	}
	obj.EnsureKey()
	obj.ID = nil

	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		if _, exists := d.Canvas().GetObjectByKey(obj.Key); exists {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Object key already in use",
			})
		}
		if err := d.Canvas().CanAdd(); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		obj.PageNumber = d.CurrentPage()
		if err := d.Canvas().AddObject(c.UserContext(), obj, true, true); err != nil {
			log.Println(err, "Error adding object")
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":  "Failed to create object",
				"object": obj,
			})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"object":  obj,
			"history": d.History().Triggers(),
		})
	})
}

func (h *EditorHandler) ModifyObject(c *fiber.Ctx) error {
	var changes models.State
	if err := c.BodyParser(&changes); err != nil || len(changes) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid changes",
		})
	}
	return h.withObject(c, func(s *session.Session, d *document.Document, obj *models.SceneObject) error {
		if err := d.Canvas().Modify(c.UserContext(), obj, changes); err != nil {
			return c.Status(editStatus(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"object":  obj,
			"history": d.History().Triggers(),
		})
	})
}

func (h *EditorHandler) RemoveObject(c *fiber.Ctx) error {
	return h.withObject(c, func(s *session.Session, d *document.Document, obj *models.SceneObject) error {
		if err := d.Canvas().CanRemove(obj); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if !d.Canvas().RemoveObject(c.UserContext(), obj, true, true) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Object cannot be removed",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"history": d.History().Triggers(),
		})
	})
}

func (h *EditorHandler) ArrangeObject(c *fiber.Ctx) error {
	var dto struct {
		Op scene.ArrangeOp `json:"op"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	return h.withObject(c, func(s *session.Session, d *document.Document, obj *models.SceneObject) error {
		if err := d.Canvas().Arrange(c.UserContext(), obj, dto.Op); err != nil {
			return c.Status(editStatus(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"zIndex": obj.ZIndex,
		})
	})
}

func (h *EditorHandler) SelectObject(c *fiber.Ctx) error {
	return h.withObject(c, func(s *session.Session, d *document.Document, obj *models.SceneObject) error {
		if err := d.Canvas().SetActive(obj); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"active": obj.Key,
		})
	})
}

func (h *EditorHandler) Undo(c *fiber.Ctx) error {
	return h.replay(c, (*history.History).Back, history.ErrNothingToUndo)
}

func (h *EditorHandler) Redo(c *fiber.Ctx) error {
	return h.replay(c, (*history.History).Forward, history.ErrNothingToRedo)
}

func (h *EditorHandler) replay(c *fiber.Ctx, step func(*history.History, context.Context) error, empty error) error {
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		err := step(d.History(), c.UserContext())
		if err != nil && !errors.Is(err, empty) {
			log.Println(err, "Error replaying history")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"changed": err == nil,
			"history": d.History().Triggers(),
		})
	})
}

func (h *EditorHandler) SwitchSides(c *fiber.Ctx) error {
	face, err := models.ParseFace(c.Params("face"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		if err := d.SwitchSides(c.UserContext(), face); err != nil {
			log.Println(err, "Error switching sides")
			code := fiber.StatusInternalServerError
			if errors.Is(err, document.ErrSaveFailed) {
				code = fiber.StatusBadGateway
			}
			return c.Status(code).JSON(fiber.Map{
				"error":       err.Error(),
				"currentPage": d.CurrentPage(),
			})
		}
		return c.Status(fiber.StatusOK).JSON(stateResponse(s, d))
	})
}

func (h *EditorHandler) SetMode(c *fiber.Ctx) error {
	var dto struct {
		Advanced bool `json:"advanced"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"advanced": d.SetEditMode(c.UserContext(), dto.Advanced),
		})
	})
}

func (h *EditorHandler) SetZoom(c *fiber.Ctx) error {
	var dto struct {
		Scale float64 `json:"scale"`
		Fit   bool    `json:"fit"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		if dto.Fit {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"scale": d.Canvas().ZoomFit(c.UserContext()),
			})
		}
		if err := d.Canvas().SetZoom(c.UserContext(), dto.Scale); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"scale": d.Canvas().Scale(),
		})
	})
}

func (h *EditorHandler) ToggleGrid(c *fiber.Ctx) error {
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"visible": d.Canvas().ToggleGrid(c.UserContext()),
		})
	})
}

func (h *EditorHandler) ToggleCutLines(c *fiber.Ctx) error {
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"visible": d.Canvas().ToggleCutLines(c.UserContext()),
		})
	})
}

func (h *EditorHandler) CheckCutLines(c *fiber.Ctx) error {
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		msgs := d.Canvas().CheckCutLines(c.UserContext())
		if msgs == nil {
			msgs = []string{}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"messages": msgs,
		})
	})
}

func (h *EditorHandler) Copy(c *fiber.Ctx) error {
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"copied": d.CopyObject(c.UserContext()),
		})
	})
}

func (h *EditorHandler) Paste(c *fiber.Ctx) error {
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		obj, err := d.PasteObject(c.UserContext())
		if errors.Is(err, scene.ErrAdvancedOnly) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if err != nil {
			log.Println(err, "Error pasting object")
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Failed to create object",
			})
		}
		if obj == nil {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"pasted": false,
			})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"pasted":  true,
			"object":  obj,
			"history": d.History().Triggers(),
		})
	})
}

func (h *EditorHandler) Save(c *fiber.Ctx) error {
	var dto struct {
		Proof bool   `json:"proof"`
		Query string `json:"query"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&dto); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}
	return h.withSession(c, func(s *session.Session, d *document.Document) error {
		res, err := d.SaveAndContinue(c.UserContext(), dto.Proof, dto.Query)
		switch {
		case errors.Is(err, document.ErrProofNotAllowed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Please edit all sides of the card before continuing!",
			})
		case err != nil:
			log.Println(err, "Error saving")
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": err.Error(),
				"saved": res.Saved,
			})
		}
		return c.Status(fiber.StatusOK).JSON(res)
	})
}
