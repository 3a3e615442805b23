package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jupiterclapton/circle/internal/core/domain"
)

// --- FORMAT D'ERREUR ---
// Contrat avec les clients existants : {"errors":[{"msg": "..."}]}.

type apiError struct {
	Msg string `json:"msg"`
}

type errorBody struct {
	Errors []apiError `json:"errors"`
}

func errBody(msg string) errorBody {
	return errorBody{Errors: []apiError{{Msg: msg}}}
}

// fail traduit la taxonomie du domaine en statuts HTTP. Tout échec de
// précondition est un 4xx ; seul ErrStoreUnavailable (retentable)
// devient un 5xx.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized),
		errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, errBody(err.Error()))

	case errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, errBody(err.Error()))

	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, errBody("store unavailable, retry later"))

	case errors.Is(err, domain.ErrUnknownUser),
		errors.Is(err, domain.ErrSelfRequest),
		errors.Is(err, domain.ErrAlreadyFriends),
		errors.Is(err, domain.ErrRequestAlreadyPending),
		errors.Is(err, domain.ErrNoSuchRequest),
		errors.Is(err, domain.ErrAlreadyLiked),
		errors.Is(err, domain.ErrNotLiked),
		errors.Is(err, domain.ErrEmptyText),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidName):
		c.JSON(http.StatusBadRequest, errBody(err.Error()))

	default:
		slog.Error("unhandled error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, errBody("Server Error"))
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errBody(msg))
}

// --- VUES JSON ---
// Le domaine ne porte pas de tags JSON ; l'adapter possède la
// représentation côté fil.

type userView struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func toUserView(u *domain.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Avatar}
}

func toUserViews(users []*domain.User) []userView {
	out := make([]userView, len(users))
	for i, u := range users {
		out[i] = toUserView(u)
	}
	return out
}

type likeView struct {
	User string `json:"user"`
}

func toLikeViews(likes []domain.Like) []likeView {
	out := make([]likeView, len(likes))
	for i, l := range likes {
		out[i] = likeView{User: l.UserID}
	}
	return out
}

type commentView struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"date"`
}

func toCommentViews(comments []domain.Comment) []commentView {
	out := make([]commentView, len(comments))
	for i, c := range comments {
		out[i] = commentView{ID: c.ID, User: c.AuthorID, Name: c.AuthorName, Text: c.Text, CreatedAt: c.CreatedAt}
	}
	return out
}

type postView struct {
	ID        string        `json:"id"`
	User      string        `json:"user"`
	Name      string        `json:"name"`
	Avatar    string        `json:"avatar"`
	Text      string        `json:"text"`
	Privacy   string        `json:"privacy"`
	Likes     []likeView    `json:"likes"`
	Comments  []commentView `json:"comments"`
	CreatedAt time.Time     `json:"date"`
}

func toPostView(p *domain.Post) postView {
	return postView{
		ID:        p.ID,
		User:      p.AuthorID,
		Name:      p.AuthorName,
		Avatar:    p.AuthorAvatar,
		Text:      p.Text,
		Privacy:   string(p.Privacy),
		Likes:     toLikeViews(p.Likes),
		Comments:  toCommentViews(p.Comments),
		CreatedAt: p.CreatedAt,
	}
}

func toPostViews(posts []*domain.Post) []postView {
	out := make([]postView, len(posts))
	for i, p := range posts {
		out[i] = toPostView(p)
	}
	return out
}

type experienceView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location,omitempty"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to,omitempty"`
	Current     bool      `json:"current"`
	Description string    `json:"description,omitempty"`
}

type educationView struct {
	ID           string    `json:"id"`
	School       string    `json:"school"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"fieldofstudy"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to,omitempty"`
	Current      bool      `json:"current"`
	Description  string    `json:"description,omitempty"`
}

type socialView struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type profileView struct {
	UserID         string           `json:"user"`
	Status         string           `json:"status"`
	Skills         []string         `json:"skills"`
	Bio            string           `json:"bio,omitempty"`
	Company        string           `json:"company,omitempty"`
	Website        string           `json:"website,omitempty"`
	Location       string           `json:"location,omitempty"`
	GithubUsername string           `json:"githubusername,omitempty"`
	Social         socialView       `json:"social"`
	Experience     []experienceView `json:"experience"`
	Education      []educationView  `json:"education"`
}

func toProfileView(p *domain.Profile) profileView {
	exps := make([]experienceView, len(p.Experience))
	for i, e := range p.Experience {
		exps[i] = experienceView(e)
	}
	edus := make([]educationView, len(p.Education))
	for i, e := range p.Education {
		edus[i] = educationView(e)
	}
	return profileView{
		UserID:         p.UserID,
		Status:         p.Status,
		Skills:         p.Skills,
		Bio:            p.Bio,
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		GithubUsername: p.GithubUsername,
		Social:         socialView(p.Social),
		Experience:     exps,
		Education:      edus,
	}
}

func toProfileViews(profiles []*domain.Profile) []profileView {
	out := make([]profileView, len(profiles))
	for i, p := range profiles {
		out[i] = toProfileView(p)
	}
	return out
}
