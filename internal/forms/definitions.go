package forms

import "blogcms/internal/models"

// DateTimeLayout is the value format of datetime-local inputs.
const DateTimeLayout = "2006-01-02T15:04"

var Comment = Form{
	Name: "comment",
	Fields: []Field{
		{Name: "content", Label: "Comment", Rule: "required,max=5000", Widget: WidgetTextarea, Rows: 4, Placeholder: "Share your thoughts..."},
		{Name: "parent_id", Rule: "omitempty,uuid", Widget: WidgetHidden},
	},
}

var Reaction = Form{
	Name: "reaction",
	Fields: []Field{
		{Name: "reaction_type", Label: "Reaction", Rule: "required,oneof=like love happy wow sad", Widget: WidgetSelect, Choices: reactionChoices()},
	},
}

var Newsletter = Form{
	Name: "newsletter",
	Fields: []Field{
		{Name: "email", Label: "Email", Rule: "required,email,max=254", Widget: WidgetEmail, Placeholder: "you@example.com"},
	},
}

var Post = Form{
	Name: "post",
	Fields: []Field{
		{Name: "title", Label: "Title", Rule: "required,max=500", Widget: WidgetText, Placeholder: "Post Title"},
		{Name: "excerpt", Label: "Excerpt", Rule: "required,max=500", Widget: WidgetTextarea, Rows: 3, Placeholder: "Brief summary"},
		{Name: "content", Label: "Content", Rule: "required", Widget: WidgetTextarea, Rows: 10, Placeholder: "Full post content"},
		{Name: "featured_image", Label: "Featured image", Widget: WidgetFile},
		{Name: "category", Label: "Category", Rule: "omitempty,uuid", Widget: WidgetSelect},
		{Name: "status", Label: "Status", Rule: "required,oneof=draft published", Widget: WidgetSelect, Choices: []Choice{
			{Value: models.StatusDraft, Label: "Draft"},
			{Value: models.StatusPublished, Label: "Published"},
		}},
		{Name: "is_visible", Label: "Visible", Widget: WidgetCheckbox},
		{Name: "featured", Label: "Featured", Widget: WidgetCheckbox},
		{Name: "scheduled_publish_at", Label: "Scheduled publish time", Rule: "omitempty,datetime=" + DateTimeLayout, Widget: WidgetDateTime},
	},
}

var Category = Form{
	Name: "category",
	Fields: []Field{
		{Name: "name", Label: "Name", Rule: "required,max=200", Widget: WidgetText},
		{Name: "description", Label: "Description", Widget: WidgetTextarea, Rows: 3},
		{Name: "color", Label: "Color", Rule: "omitempty,len=7,hexcolor", Widget: WidgetColor},
	},
}

var Registration = Form{
	Name: "registration",
	Fields: []Field{
		{Name: "username", Label: "Username", Rule: "required,max=150,username", Widget: WidgetText, Placeholder: "Username"},
		{Name: "email", Label: "Email address", Rule: "required,email,max=254", Widget: WidgetEmail, Placeholder: "Email address"},
		{Name: "first_name", Label: "First name", Rule: "max=150", Widget: WidgetText, Placeholder: "First name"},
		{Name: "last_name", Label: "Last name", Rule: "max=150", Widget: WidgetText, Placeholder: "Last name"},
		{Name: "password", Label: "Password", Rule: "required,min=8", Widget: WidgetPassword, Placeholder: "Password"},
		{Name: "password_confirm", Label: "Confirm Password", Rule: "required", Widget: WidgetPassword, Placeholder: "Confirm Password"},
	},
}

var Login = Form{
	Name: "login",
	Fields: []Field{
		{Name: "username", Label: "Username", Rule: "required", Widget: WidgetText, Placeholder: "Username"},
		{Name: "password", Label: "Password", Rule: "required", Widget: WidgetPassword, Placeholder: "Password"},
	},
}

var Profile = Form{
	Name: "profile",
	Fields: []Field{
		{Name: "bio", Label: "Bio", Rule: "max=2000", Widget: WidgetTextarea, Rows: 4},
		{Name: "avatar", Label: "Avatar", Widget: WidgetFile},
		{Name: "newsletter", Label: "Receive the newsletter", Widget: WidgetCheckbox},
	},
}

func reactionChoices() []Choice {
	choices := make([]Choice, 0, len(models.ReactionTypes))
	for _, rt := range models.ReactionTypes {
		choices = append(choices, Choice{Value: rt, Label: models.ReactionEmoji(rt)})
	}
	return choices
}
