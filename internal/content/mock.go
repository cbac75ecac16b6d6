// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"time"

	"github.com/olegiv/connect-web/internal/model"
)

// The mock dataset is fixed and deterministic. It has the same shape as live
// data so that pages render it without special cases. Accessors return
// fresh copies so callers may modify them.

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func mockNews() []model.News {
	return []model.News{
		{
			ID:         1,
			Title:      "Issa Connect Platform Launch: Revolutionizing Digital Collaboration",
			Content:    "We're thrilled to announce the official launch of Issa Connect, a cutting-edge platform designed to streamline communication and enhance productivity across organizations.",
			Excerpt:    "Announcing the launch of our revolutionary digital collaboration platform with advanced features for modern teams.",
			Category:   "Product Launch",
			Image:      "https://images.unsplash.com/photo-1560472354-b43ff0c44a43?w=800&h=400&fit=crop",
			ReadTime:   "5 min read",
			Views:      1247,
			Tags:       []string{"News", "Product Launch"},
			AuthorName: "Sarah Johnson",
			AuthorRole: "Product Manager",
			CreatedAt:  mustTime("2024-01-20T10:00:00Z"),
		},
		{
			ID:         2,
			Title:      "Advanced Security Features: Protecting Your Data",
			Content:    "Security is at the heart of everything we do at Issa Connect. Today, we're introducing enhanced security protocols including end-to-end encryption.",
			Excerpt:    "Introducing comprehensive security enhancements to protect your valuable data and communications with enterprise-grade protection.",
			Category:   "Security",
			Image:      "https://images.unsplash.com/photo-1563013544-824ae1b704d3?w=800&h=400&fit=crop",
			ReadTime:   "7 min read",
			Views:      892,
			Tags:       []string{"News", "Security"},
			AuthorName: "Michael Chen",
			AuthorRole: "Security Engineer",
			CreatedAt:  mustTime("2024-01-18T14:30:00Z"),
		},
		{
			ID:         3,
			Title:      "Q1 Performance Analytics: Record Growth",
			Content:    "We're excited to share our Q1 performance metrics, which show unprecedented growth in user engagement and platform adoption.",
			Excerpt:    "Sharing our impressive Q1 metrics showing record growth and exceptional user engagement across all platforms.",
			Category:   "Analytics",
			Image:      "https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=800&h=400&fit=crop",
			ReadTime:   "4 min read",
			Views:      634,
			Tags:       []string{"News", "Analytics"},
			AuthorName: "Emma Davis",
			AuthorRole: "Analytics Director",
			CreatedAt:  mustTime("2024-01-15T09:15:00Z"),
		},
	}
}

func mockEvents() []model.Event {
	return []model.Event{
		{
			ID:              1,
			Title:           "Issa Connect Annual Conference 2024: The Future of Digital Workplace",
			Description:     "Join us for our flagship annual conference featuring keynote speakers from leading tech companies, interactive workshops, and networking opportunities.",
			Excerpt:         "Our flagship conference featuring industry leaders and innovative workshops on digital collaboration.",
			Category:        "Conference",
			Image:           "https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=800&h=400&fit=crop",
			Date:            mustTime("2024-03-15T09:00:00Z"),
			EndDate:         mustTime("2024-03-17T18:00:00Z"),
			Location:        "Convention Center, San Francisco",
			VenueDetails:    "Moscone Center, 747 Howard St, San Francisco, CA 94103",
			Capacity:        500,
			RegisteredCount: 324,
			TicketPrice:     "Free",
			Agenda:          "Day 1: Keynotes & Workshops, Day 2: Panel Discussions, Day 3: Networking & Awards",
			AuthorName:      "Event Team",
		},
		{
			ID:              2,
			Title:           "Advanced Features Training Workshop",
			Description:     "Deep dive into Issa Connect's advanced features with our expert trainers. This hands-on workshop covers automation tools and integrations.",
			Excerpt:         "Hands-on training workshop covering advanced platform features and productivity techniques.",
			Category:        "Training",
			Image:           "https://images.unsplash.com/photo-1552664730-d307ca884978?w=800&h=400&fit=crop",
			Date:            mustTime("2024-02-28T14:00:00Z"),
			EndDate:         mustTime("2024-02-28T17:00:00Z"),
			Location:        "Virtual Event",
			VenueDetails:    "Online via Issa Connect Platform",
			Capacity:        100,
			RegisteredCount: 67,
			TicketPrice:     "Free for Premium users",
			Agenda:          "Session 1: Automation Setup, Session 2: Integration Techniques, Session 3: Custom Workflows",
			AuthorName:      "Training Team",
		},
		{
			ID:              3,
			Title:           "Community Meetup: Building Better Digital Experiences",
			Description:     "Connect with fellow Issa Connect users in your area! Share experiences, exchange tips, and collaborate on innovative solutions.",
			Excerpt:         "Local community meetup for users to share experiences and network with fellow professionals.",
			Category:        "Meetup",
			Image:           "https://images.unsplash.com/photo-1515187029135-18ee286d815b?w=800&h=400&fit=crop",
			Date:            mustTime("2024-02-10T18:00:00Z"),
			EndDate:         mustTime("2024-02-10T21:00:00Z"),
			Location:        "Tech Hub Downtown",
			VenueDetails:    "Innovation District, 123 Tech Street, Austin, TX 78701",
			Capacity:        50,
			RegisteredCount: 23,
			TicketPrice:     "Free",
			Agenda:          "6:00 PM: Welcome & Networking, 7:00 PM: User Presentations, 8:00 PM: Q&A & Social",
			AuthorName:      "Community Team",
		},
	}
}

func mockUsers() []model.AdminUser {
	return []model.AdminUser{
		{
			UserProfile: model.UserProfile{
				ID:         1,
				Username:   "john_doe",
				FirstName:  "John",
				LastName:   "Doe",
				Email:      "john@example.com",
				AvatarURL:  "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
				DateJoined: mustTime("2024-01-10T10:00:00Z"),
			},
			PhoneNumber: "+1 (555) 123-4567",
		},
		{
			UserProfile: model.UserProfile{
				ID:               2,
				Username:         "jane_smith",
				FirstName:        "Jane",
				LastName:         "Smith",
				Email:            "jane@example.com",
				CanCreateContent: true,
				DateJoined:       mustTime("2024-01-08T14:30:00Z"),
			},
			PhoneNumber: "+1 (555) 987-6543",
		},
	}
}

func mockEventSummaries() []model.EventSummary {
	return []model.EventSummary{
		{
			ID:                     1,
			Title:                  "Annual Tech Conference 2024",
			Date:                   mustTime("2024-03-15T09:00:00Z"),
			Capacity:               100,
			CurrentRegistrations:   85,
			RegistrationPercentage: 85.0,
		},
		{
			ID:                     2,
			Title:                  "Workshop: React Best Practices",
			Date:                   mustTime("2024-03-20T14:00:00Z"),
			Capacity:               30,
			CurrentRegistrations:   30,
			IsFull:                 true,
			RegistrationPercentage: 100.0,
		},
	}
}

func mockRegistrations(eventID int64, title string) model.EventRegistrations {
	if title == "" {
		title = "Event"
	}
	return model.EventRegistrations{
		EventID:         eventID,
		EventTitle:      title,
		Capacity:        100,
		RegisteredCount: 2,
		Registrations: []model.EventRegistration{
			{
				ID:           1,
				EventID:      eventID,
				UserID:       1,
				UserName:     "John Doe",
				UserEmail:    "john@example.com",
				UserAvatar:   "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
				RegisteredAt: mustTime("2024-01-15T10:30:00Z"),
			},
			{
				ID:           2,
				EventID:      eventID,
				UserID:       2,
				UserName:     "Jane Smith",
				UserEmail:    "jane@example.com",
				RegisteredAt: mustTime("2024-01-16T14:20:00Z"),
			},
		},
	}
}

func mockNewsByID(id int64) (model.News, bool) {
	for _, n := range mockNews() {
		if n.ID == id {
			return n, true
		}
	}
	return model.News{}, false
}

func mockEventByID(id int64) (model.Event, bool) {
	for _, e := range mockEvents() {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}
