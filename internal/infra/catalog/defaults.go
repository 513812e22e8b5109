package catalog

import "github.com/TestimonialCarousel/internal/domain"

// DefaultItems returns the built-in testimonials used when no catalog file
// is present.
func DefaultItems() []domain.Item {
	return []domain.Item{
		{
			ID:       "sarah-johnson",
			Name:     "Sarah Johnson",
			Position: "CEO",
			Company:  "Fashion Forward",
			Category: "Fashion Industry",
			Avatar:   "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=150&q=80",
			Quote:    "DoMaxReach transformed our social media presence completely. Our engagement rates tripled within just 3 months! Their creative approach and data-driven strategies exceeded all our expectations.",
			Rating:   5,
			Metrics: []domain.Metric{
				{Value: "250%", Label: "Engagement"},
				{Value: "3M", Label: "Reach"},
				{Value: "180%", Label: "Growth"},
			},
			Order: 0,
		},
		{
			ID:       "michael-chen",
			Name:     "Michael Chen",
			Position: "Founder",
			Company:  "TechStart",
			Category: "Tech Industry",
			Avatar:   "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&q=80",
			Quote:    "The creative team at DoMaxReach is phenomenal. They brought our vision to life in ways we never imagined possible. The attention to detail and innovative approach set them apart from everyone else in the industry.",
			Rating:   5,
			Metrics: []domain.Metric{
				{Value: "400%", Label: "Revenue"},
				{Value: "2.5M", Label: "Users"},
				{Value: "95%", Label: "Retention"},
			},
			Order: 1,
		},
		{
			ID:       "emily-rodriguez",
			Name:     "Emily Rodriguez",
			Position: "Marketing Director",
			Company:  "E-Shop Pro",
			Category: "E-commerce",
			Avatar:   "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150&q=80",
			Quote:    "ROI increased by 300% after implementing their digital marketing strategies. Best investment we've made! Their data-driven approach and creative campaigns delivered results beyond our wildest expectations.",
			Rating:   5,
			Metrics: []domain.Metric{
				{Value: "300%", Label: "ROI"},
				{Value: "1.8M", Label: "Sales"},
				{Value: "65%", Label: "Conversion"},
			},
			Order: 2,
		},
		{
			ID:       "david-park",
			Name:     "David Park",
			Position: "Brand Manager",
			Company:  "Luxury Living",
			Category: "Lifestyle Brand",
			Avatar:   "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&q=80",
			Quote:    "Exceptional service and results that speak for themselves. DoMaxReach doesn't just deliver campaigns, they deliver transformation. Our brand visibility and customer engagement reached new heights with their expertise.",
			Rating:   5,
			Metrics: []domain.Metric{
				{Value: "500%", Label: "Visibility"},
				{Value: "4.2M", Label: "Impressions"},
				{Value: "85%", Label: "Engagement"},
			},
			Order: 3,
		},
	}
}
